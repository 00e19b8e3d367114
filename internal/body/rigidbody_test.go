package body_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physcore/internal/body"
	"github.com/san-kum/physcore/internal/dynamo"
	"github.com/san-kum/physcore/internal/vecmath"
)

var _ = Describe("RigidBody", func() {
	var rb *body.RigidBody

	BeforeEach(func() {
		rb = body.New(vecmath.Vector3{0, 0, 0}, vecmath.Vector3{1, 0, 0}, 10, vecmath.Identity())
	})

	Describe("construction", func() {
		It("starts with zero angular velocity and identity orientation", func() {
			Expect(rb.AngularVelocity()).To(Equal(vecmath.Vector3{}))
			Expect(rb.Orientation()).To(Equal(vecmath.QuatIdentity()))
			Expect(rb.Mass()).To(Equal(10.0))
			Expect(rb.Inertia()).To(Equal(vecmath.Identity()))
		})

		It("accepts degenerate mass and singular inertia without failing", func() {
			b := body.New(vecmath.Vector3{}, vecmath.Vector3{}, 0, vecmath.Matrix3{})
			Expect(b.Position()).To(Equal(vecmath.Vector3{}))
		})
	})

	Describe("ApplyForce", func() {
		It("accelerates the body by F/m*dt", func() {
			Expect(rb.ApplyForce(vecmath.Vector3{10, 0, 0}, 1.0)).To(Succeed())
			Expect(rb.Velocity()).To(Equal(vecmath.Vector3{2, 0, 0}))
		})

		It("matches velocity_before + (F/m)*dt", func() {
			b := body.New(vecmath.Vector3{}, vecmath.Vector3{0.3, -1.7, 2.9}, 3.7, vecmath.Identity())
			force := vecmath.Vector3{1.1, 2.2, -3.3}
			dt := 0.013

			before := b.Velocity()
			Expect(b.ApplyForce(force, dt)).To(Succeed())

			want := vecmath.Add(before, vecmath.Scale(vecmath.Scale(force, 1/3.7), dt))
			for i := range want {
				Expect(b.Velocity()[i]).To(BeNumerically("~", want[i], 1e-15))
			}
		})

		It("integrates backward for negative dt", func() {
			Expect(rb.ApplyForce(vecmath.Vector3{10, 0, 0}, -1.0)).To(Succeed())
			Expect(rb.Velocity()).To(Equal(vecmath.Vector3{0, 0, 0}))
		})

		It("does not move the body", func() {
			Expect(rb.ApplyForce(vecmath.Vector3{10, 10, 10}, 1.0)).To(Succeed())
			Expect(rb.Position()).To(Equal(vecmath.Vector3{}))
		})

		DescribeTable("rejects degenerate mass and leaves velocity unchanged",
			func(mass float64) {
				b := body.New(vecmath.Vector3{}, vecmath.Vector3{1, 2, 3}, mass, vecmath.Identity())
				err := b.ApplyForce(vecmath.Vector3{10, 0, 0}, 1.0)

				Expect(err).To(MatchError(dynamo.ErrDegenerateMass))
				Expect(b.Velocity()).To(Equal(vecmath.Vector3{1, 2, 3}))

				var opErr *dynamo.OpError
				Expect(err).To(BeAssignableToTypeOf(opErr))
			},
			Entry("zero", 0.0),
			Entry("negative", -5.0),
			Entry("NaN", math.NaN()),
		)
	})

	Describe("ApplyTorque", func() {
		It("accelerates rotation by I⁻¹·τ·dt", func() {
			b := body.New(vecmath.Vector3{}, vecmath.Vector3{}, 1, vecmath.Diagonal(2, 4, 0.5))
			Expect(b.ApplyTorque(vecmath.Vector3{1, 1, 1}, 2)).To(Succeed())

			w := b.AngularVelocity()
			Expect(w.X()).To(BeNumerically("~", 1.0, 1e-12))
			Expect(w.Y()).To(BeNumerically("~", 0.5, 1e-12))
			Expect(w.Z()).To(BeNumerically("~", 4.0, 1e-12))
		})

		It("leaves linear velocity alone", func() {
			Expect(rb.ApplyTorque(vecmath.Vector3{0, 0, 1}, 1.0)).To(Succeed())
			Expect(rb.AngularVelocity().Z()).To(BeNumerically(">", 0))
			Expect(rb.Velocity()).To(Equal(vecmath.Vector3{1, 0, 0}))
		})

		It("accumulates across calls", func() {
			Expect(rb.ApplyTorque(vecmath.Vector3{0, 0, 1}, 0.5)).To(Succeed())
			Expect(rb.ApplyTorque(vecmath.Vector3{0, 0, 1}, 0.5)).To(Succeed())
			Expect(rb.AngularVelocity()).To(Equal(vecmath.Vector3{0, 0, 1}))
		})

		DescribeTable("rejects a singular inertia tensor and leaves angular velocity unchanged",
			func(inertia vecmath.Matrix3) {
				b := body.New(vecmath.Vector3{}, vecmath.Vector3{}, 1, inertia)
				err := b.ApplyTorque(vecmath.Vector3{0, 0, 1}, 1.0)

				Expect(err).To(MatchError(dynamo.ErrSingularMatrix))
				Expect(b.AngularVelocity()).To(Equal(vecmath.Vector3{}))
			},
			Entry("zero matrix", vecmath.Matrix3{}),
			Entry("flat along z", vecmath.Diagonal(1, 1, 0)),
			Entry("dependent rows", vecmath.Matrix3{{1, 2, 3}, {2, 4, 6}, {1, 1, 1}}),
		)

		It("keeps failing on every call for a singular tensor", func() {
			b := body.New(vecmath.Vector3{}, vecmath.Vector3{}, 1, vecmath.Matrix3{})
			Expect(b.ApplyTorque(vecmath.Vector3{1, 0, 0}, 1)).NotTo(Succeed())
			Expect(b.ApplyTorque(vecmath.Vector3{1, 0, 0}, 1)).NotTo(Succeed())
		})
	})

	Describe("ApplyWrench", func() {
		It("matches ApplyForce followed by ApplyTorque", func() {
			other := body.New(vecmath.Vector3{}, vecmath.Vector3{1, 0, 0}, 10, vecmath.Identity())
			Expect(other.ApplyForce(vecmath.Vector3{5, 0, 0}, 0.1)).To(Succeed())
			Expect(other.ApplyTorque(vecmath.Vector3{0, 0, 2}, 0.1)).To(Succeed())

			Expect(rb.ApplyWrench(vecmath.Vector3{5, 0, 0}, vecmath.Vector3{0, 0, 2}, 0.1)).To(Succeed())
			Expect(rb.Velocity().X()).To(BeNumerically("~", other.Velocity().X(), 1e-12))
			Expect(rb.AngularVelocity()).To(Equal(other.AngularVelocity()))
		})

		It("keeps the linear velocity when the torque cannot be applied", func() {
			b := body.New(vecmath.Vector3{}, vecmath.Vector3{1, 0, 0}, 1, vecmath.Diagonal(1, 0, 1))
			err := b.ApplyWrench(vecmath.Vector3{3, 0, 0}, vecmath.Vector3{0, 1, 0}, 1)

			Expect(err).To(MatchError(dynamo.ErrSingularMatrix))
			Expect(b.Velocity()).To(Equal(vecmath.Vector3{1, 0, 0}))
			Expect(b.AngularVelocity()).To(Equal(vecmath.Vector3{}))
		})

		It("keeps the angular velocity when the force cannot be applied", func() {
			b := body.New(vecmath.Vector3{}, vecmath.Vector3{}, 0, vecmath.Identity())
			err := b.ApplyWrench(vecmath.Vector3{1, 0, 0}, vecmath.Vector3{0, 0, 1}, 1)

			Expect(err).To(MatchError(dynamo.ErrDegenerateMass))
			Expect(b.AngularVelocity()).To(Equal(vecmath.Vector3{}))
		})

		It("ignores degenerate properties for zero components", func() {
			b := body.New(vecmath.Vector3{}, vecmath.Vector3{}, 0, vecmath.Matrix3{})
			Expect(b.ApplyWrench(vecmath.Vector3{}, vecmath.Vector3{}, 1)).To(Succeed())
		})
	})

	Describe("Update", func() {
		It("moves the body along its velocity", func() {
			Expect(rb.ApplyForce(vecmath.Vector3{10, 0, 0}, 1.0)).To(Succeed())
			rb.Update(1.0)

			Expect(rb.Position()).To(Equal(vecmath.Vector3{2, 0, 0}))
			Expect(rb.Position().X()).To(BeNumerically(">", 1.0))
		})

		It("uses only the latest velocity, not per-call increments", func() {
			batched := body.New(vecmath.Vector3{}, vecmath.Vector3{1, 0, 0}, 10, vecmath.Identity())
			Expect(batched.ApplyForce(vecmath.Vector3{10, 0, 0}, 1)).To(Succeed())
			Expect(batched.ApplyForce(vecmath.Vector3{10, 0, 0}, 1)).To(Succeed())
			batched.Update(1)

			stepped := body.New(vecmath.Vector3{}, vecmath.Vector3{1, 0, 0}, 10, vecmath.Identity())
			Expect(stepped.ApplyForce(vecmath.Vector3{10, 0, 0}, 1)).To(Succeed())
			stepped.Update(1)
			Expect(stepped.ApplyForce(vecmath.Vector3{10, 0, 0}, 1)).To(Succeed())
			stepped.Update(1)

			Expect(batched.Position()).To(Equal(vecmath.Vector3{3, 0, 0}))
			Expect(stepped.Position()).To(Equal(vecmath.Vector3{5, 0, 0}))
			Expect(batched.Position()).NotTo(Equal(stepped.Position()))
		})

		It("is a no-op for zero dt", func() {
			Expect(rb.ApplyTorque(vecmath.Vector3{0, 1, 0}, 1)).To(Succeed())
			before := rb.Snapshot()
			rb.Update(0)
			Expect(rb.Snapshot()).To(Equal(before))
		})

		It("does not change velocity", func() {
			rb.Update(3)
			Expect(rb.Velocity()).To(Equal(vecmath.Vector3{1, 0, 0}))
		})

		It("restores the position when run backward", func() {
			b := body.New(vecmath.Vector3{1, -2, 0.5}, vecmath.Vector3{2, 0.25, -4}, 1, vecmath.Identity())
			b.Update(0.5)
			Expect(b.Position()).To(Equal(vecmath.Vector3{2, -1.875, -1.5}))
			b.Update(-0.5)
			Expect(b.Position()).To(Equal(vecmath.Vector3{1, -2, 0.5}))
		})

		It("rotates the orientation from angular velocity and keeps it unit length", func() {
			Expect(rb.ApplyTorque(vecmath.Vector3{0, 0, 1}, 1)).To(Succeed())
			for i := 0; i < 100; i++ {
				rb.Update(0.01)
			}
			q := rb.Orientation()
			Expect(q.Len()).To(BeNumerically("~", 1.0, 1e-12))
			Expect(q.V.Z()).To(BeNumerically(">", 0))
			// one radian about z after 1s at 1 rad/s; first-order drift stays small
			Expect(q.W).To(BeNumerically("~", math.Cos(0.5), 1e-2))
		})
	})

	Describe("accessors", func() {
		It("return snapshots that cannot alias internal state", func() {
			p := rb.Position()
			p[0] = 99

			s := rb.Snapshot()
			s.Velocity[0] = 42
			s.Inertia[0][0] = 0

			Expect(rb.Position()).To(Equal(vecmath.Vector3{}))
			Expect(rb.Velocity()).To(Equal(vecmath.Vector3{1, 0, 0}))
			Expect(rb.ApplyTorque(vecmath.Vector3{1, 0, 0}, 1)).To(Succeed())
		})
	})

	Describe("KineticEnergy", func() {
		It("sums linear and rotational terms", func() {
			b := body.New(vecmath.Vector3{}, vecmath.Vector3{3, 4, 0}, 2, vecmath.Diagonal(1, 2, 3))
			Expect(b.ApplyTorque(vecmath.Vector3{0, 0, 3}, 1)).To(Succeed())
			// 0.5*2*25 + 0.5*3*1
			Expect(b.KineticEnergy()).To(BeNumerically("~", 26.5, 1e-12))
		})
	})
})

var _ = Describe("UpdateAll", func() {
	newBodies := func(n int) []*body.RigidBody {
		bodies := make([]*body.RigidBody, n)
		for i := range bodies {
			bodies[i] = body.New(vecmath.Vector3{}, vecmath.Vector3{float64(i), 1, 0}, 1, vecmath.Identity())
		}
		return bodies
	}

	It("advances every body like a sequential Update", func() {
		bodies := newBodies(257)
		Expect(body.UpdateAll(context.Background(), bodies, 0.5)).To(Succeed())

		for i, b := range bodies {
			Expect(b.Position()).To(Equal(vecmath.Vector3{float64(i) * 0.5, 0.5, 0}))
		}
	})

	It("handles an empty slice", func() {
		Expect(body.UpdateAll(context.Background(), nil, 1)).To(Succeed())
	})

	It("stops scheduling when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		bodies := newBodies(8)
		Expect(body.UpdateAll(ctx, bodies, 1)).To(MatchError(context.Canceled))
		Expect(bodies[0].Position()).To(Equal(vecmath.Vector3{}))
	})
})
