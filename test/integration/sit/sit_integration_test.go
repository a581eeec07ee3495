// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package sit_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/samber/oops"

	"github.com/holomush/holosit/internal/access"
	"github.com/holomush/holosit/internal/command"
	"github.com/holomush/holosit/internal/config"
	"github.com/holomush/holosit/internal/seat"
	"github.com/holomush/holosit/internal/sim"
)

// server wires the components the serve command runs.
type server struct {
	host       *sim.Host
	store      *config.Store
	access     *access.StaticAccessControl
	manager    *seat.Manager
	dispatcher *command.Dispatcher
	subscriber *seat.Subscriber
	events     chan seat.Event
	cancel     context.CancelFunc
}

func startServer(configBody string) *server {
	path := filepath.Join(GinkgoT().TempDir(), "config.yaml")
	Expect(os.WriteFile(path, []byte(configBody), 0o600)).To(Succeed())
	store, err := config.NewStore(path, nil)
	Expect(err).NotTo(HaveOccurred())

	host := sim.NewHost(nil)
	sim.PopulateDemo(host)

	ac := access.NewStaticAccessControl()
	Expect(ac.SetDefaultRole(access.RolePlayer)).To(Succeed())

	manager, err := seat.NewManager(seat.ManagerConfig{
		World:     host,
		Scheduler: host,
		Config:    store,
		Access:    ac,
		Notifier:  command.NewNotifier(host),
	})
	Expect(err).NotTo(HaveOccurred())

	registry := command.NewRegistry()
	Expect(registry.Register(command.NewSitCommand(manager, ac).Entry())).To(Succeed())
	dispatcher, err := command.NewDispatcher(registry, ac, host)
	Expect(err).NotTo(HaveOccurred())

	ctx, cancel := context.WithCancel(context.Background())
	events := host.Events().Subscribe()
	sub := seat.NewSubscriber(manager)
	sub.Start(ctx, events)

	return &server{
		host:       host,
		store:      store,
		access:     ac,
		manager:    manager,
		dispatcher: dispatcher,
		subscriber: sub,
		events:     events,
		cancel:     cancel,
	}
}

func (s *server) stop() {
	s.cancel()
	s.subscriber.Stop()
	s.host.Events().Unsubscribe(s.events)
	s.manager.ForceUnseatAll(context.Background())
}

func (s *server) join(landmark string) ulid.ULID {
	at, ok := sim.LandmarkPlacement(landmark)
	Expect(ok).To(BeTrue())
	id, err := s.host.Join(landmark, at)
	Expect(err).NotTo(HaveOccurred())
	return id
}

func (s *server) sit(actor ulid.ULID) error {
	return s.dispatcher.Dispatch(context.Background(), actor, "/sit")
}

func (s *server) seated(actor ulid.ULID) func() bool {
	return func() bool { return s.manager.IsSeated(context.Background(), actor) }
}

var _ = Describe("/sit", func() {
	var srv *server

	BeforeEach(func() {
		srv = startServer("cooldown-seconds: 3\n")
	})

	AfterEach(func() {
		srv.stop()
	})

	Describe("toggling", func() {
		It("seats the actor on the next tick and stands them up on the second use", func() {
			actor := srv.join("bench")

			Expect(srv.sit(actor)).To(Succeed())
			Expect(srv.host.Messages(actor)).To(BeEmpty())
			Expect(srv.host.CountEntities(sim.KindSeat)).To(Equal(1))

			srv.host.Step()
			Expect(srv.seated(actor)()).To(BeTrue())
			Expect(srv.host.LastMessage(actor)).To(Equal(command.MsgSitDown))

			Expect(srv.sit(actor)).To(Succeed())
			Expect(srv.seated(actor)()).To(BeFalse())
			Expect(srv.host.LastMessage(actor)).To(Equal(command.MsgStandUp))
			Expect(srv.host.CountEntities(sim.KindSeat)).To(BeZero())
		})

		It("enforces the cooldown after standing up", func() {
			actor := srv.join("spawn")

			Expect(srv.sit(actor)).To(Succeed())
			srv.host.Step()
			Expect(srv.sit(actor)).To(Succeed())
			Expect(srv.sit(actor)).To(Succeed())

			Expect(srv.host.LastMessage(actor)).To(Equal("Please wait 3s before using /sit again."))
			Expect(srv.host.CountEntities(sim.KindSeat)).To(BeZero())
		})

		It("lets moderators skip the cooldown", func() {
			actor := srv.join("spawn")
			Expect(srv.access.AssignRole(actor, access.RoleModerator)).To(Succeed())

			Expect(srv.sit(actor)).To(Succeed())
			srv.host.Step()
			Expect(srv.sit(actor)).To(Succeed())
			Expect(srv.sit(actor)).To(Succeed())
			srv.host.Step()

			Expect(srv.seated(actor)()).To(BeTrue())
		})

		It("explains why the actor cannot sit", func() {
			actor := srv.join("cactus")

			Expect(srv.sit(actor)).To(Succeed())
			Expect(srv.host.LastMessage(actor)).To(ContainSubstring("CACTUS"))
			Expect(srv.host.CountEntities(sim.KindSeat)).To(BeZero())
		})

		It("reports a seat still being prepared", func() {
			actor := srv.join("spawn")

			Expect(srv.sit(actor)).To(Succeed())
			Expect(srv.sit(actor)).To(Succeed())
			Expect(srv.host.LastMessage(actor)).To(Equal(command.MsgBusy))
		})

		It("refuses actors without the use capability", func() {
			Expect(srv.access.SetDefaultRole("")).To(Succeed())
			actor := srv.join("spawn")

			err := srv.sit(actor)
			Expect(err).To(HaveOccurred())
			oopsErr, ok := oops.AsOops(err)
			Expect(ok).To(BeTrue())
			Expect(oopsErr.Code()).To(Equal(command.CodePermissionDenied))
			Expect(srv.host.LastMessage(actor)).To(Equal("Permission denied."))
		})
	})

	Describe("forced unseats", func() {
		var actor ulid.ULID

		BeforeEach(func() {
			actor = srv.join("spawn")
			Expect(srv.sit(actor)).To(Succeed())
			srv.host.Step()
			Expect(srv.seated(actor)()).To(BeTrue())
		})

		It("stands a sneaking actor up and tells them", func() {
			Expect(srv.host.SetSneaking(actor, true)).To(Succeed())

			Eventually(srv.seated(actor), time.Second).Should(BeFalse())
			Eventually(func() string { return srv.host.LastMessage(actor) }, time.Second).
				Should(Equal(command.MsgStandUp))
		})

		It("stands a teleported actor up and cleans the seat", func() {
			to, _ := sim.LandmarkPlacement("bench")
			Expect(srv.host.TeleportPlayer(actor, to)).To(Succeed())

			Eventually(srv.seated(actor), time.Second).Should(BeFalse())
			Eventually(func() int { return srv.host.CountEntities(sim.KindSeat) }, time.Second).Should(BeZero())
		})

		It("removes the seat when the actor disconnects", func() {
			Expect(srv.host.Quit(actor)).To(Succeed())

			Eventually(func() int { return srv.host.CountEntities(sim.KindSeat) }, time.Second).Should(BeZero())
			Expect(srv.manager.Registry().Len()).To(BeZero())
		})

		It("stands the actor up on a world change", func() {
			Expect(srv.host.TeleportPlayer(actor, sim.Spawn(sim.Nether))).To(Succeed())

			Eventually(srv.seated(actor), time.Second).Should(BeFalse())
		})
	})

	Describe("reload", func() {
		It("requires the reload capability", func() {
			actor := srv.join("spawn")

			Expect(srv.dispatcher.Dispatch(context.Background(), actor, "/sit reload")).NotTo(Succeed())
			Expect(srv.host.LastMessage(actor)).To(Equal("Permission denied."))
		})

		It("applies a new blacklist and keeps the old settings on a bad file", func() {
			admin := srv.join("bench")
			Expect(srv.access.AssignRole(admin, access.RoleAdmin)).To(Succeed())

			Expect(os.WriteFile(srv.store.Path(), []byte("blacklist-blocks: [OAK_SLAB]\n"), 0o600)).To(Succeed())
			Expect(srv.dispatcher.Dispatch(context.Background(), admin, "/sit reload")).To(Succeed())
			Expect(srv.host.LastMessage(admin)).To(Equal(command.MsgReloaded))

			Expect(srv.sit(admin)).To(Succeed())
			Expect(srv.host.LastMessage(admin)).To(ContainSubstring("OAK_SLAB"))

			Expect(os.WriteFile(srv.store.Path(), []byte("cooldown-seconds: -2\n"), 0o600)).To(Succeed())
			Expect(srv.dispatcher.Dispatch(context.Background(), admin, "/sit reload")).NotTo(Succeed())
			Expect(srv.host.LastMessage(admin)).To(Equal(command.MsgReloadFailed))
			Expect(srv.store.Snapshot().BlacklistBlocks).To(Equal([]string{"OAK_SLAB"}))
		})
	})

	Describe("shutdown", func() {
		It("leaves no seat entities behind", func() {
			a := srv.join("spawn")
			b := srv.join("bench")
			Expect(srv.sit(a)).To(Succeed())
			srv.host.Step()
			Expect(srv.sit(b)).To(Succeed())

			Expect(srv.manager.ForceUnseatAll(context.Background())).To(Equal(1))
			srv.host.Step()

			Expect(srv.host.CountEntities(sim.KindSeat)).To(BeZero())
			Expect(srv.manager.IsSeated(context.Background(), b)).To(BeFalse())
		})
	})
})
