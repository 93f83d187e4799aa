package vehicle

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"marinesim/internal/gnc"
	"marinesim/internal/sim"
)

func simulate(cfg Config, simCfg sim.Config, etaInit sim.State) *sim.Result {
	v, err := New(cfg)
	Expect(err).NotTo(HaveOccurred())

	result, err := sim.Simulate(context.Background(), v, etaInit, simCfg)
	Expect(err).NotTo(HaveOccurred())
	return result
}

var _ = Describe("heading autopilot", func() {
	var simCfg sim.Config

	BeforeEach(func() {
		simCfg = sim.DefaultConfig()
		simCfg.Dt = 0.1
	})

	Describe("holding the initial heading", func() {
		It("stays on course with no disturbance", func() {
			cfg := DefaultConfig()
			cfg.HeadingDeg = 0
			cfg.CurrentEnabled = false
			cfg.CurrentSpeed = 0
			simCfg.N = 6000 // 600 s

			result := simulate(cfg, simCfg, make(sim.State, 6))

			finalEta, finalNu := result.Final()
			Expect(math.Abs(finalEta[5])).To(BeNumerically("<", 1e-9),
				"yaw should stay at the reference")
			Expect(finalNu[1]).To(BeNumerically("~", 0, 1e-9),
				"no sway without disturbance")

			// Surge settles at the design speed.
			Expect(finalNu[0]).To(BeNumerically("~", cfg.DesiredSpeed, 0.5))

			// The rudder never leaves amidships.
			for i := 0; i < result.Data.Len(); i++ {
				Expect(result.Data.UActual(i)[0]).To(BeZero())
			}
		})
	})

	Describe("a -80 degree course change", func() {
		It("converges in the transit scenario", func() {
			cfg := DefaultConfig() // -80 deg reference, 10 m/s ambient current
			simCfg.N = 18000       // 1800 s
			simCfg.NormLimit = 10 * cfg.DesiredSpeed

			result := simulate(cfg, simCfg, make(sim.State, 6))

			Expect(result.Data.Len()).To(Equal(simCfg.N + 1))
			Expect(result.Times[simCfg.N]).To(BeNumerically("~", 1800.0, 1e-6))

			finalEta, _ := result.Final()
			errDeg := gnc.Ssa(finalEta[5]-(-80*gnc.D2R)) * gnc.R2D
			Expect(math.Abs(errDeg)).To(BeNumerically("<", 1.0),
				"final heading within a degree of the reference")

			// Sway stays a small fraction of the transit speed for the
			// whole run; anything larger means the loop is pumping energy
			// into the hull instead of damping it.
			sway := result.Data.Column(7)
			for i, v := range sway {
				Expect(math.Abs(v)).To(BeNumerically("<", 15.0),
					"sway velocity bounded at sample %d", i)
			}
		})

		It("converges in calm water", func() {
			cfg := DefaultConfig()
			cfg.CurrentEnabled = false
			cfg.CurrentSpeed = 0
			simCfg.N = 18000
			simCfg.NormLimit = 10 * cfg.DesiredSpeed

			result := simulate(cfg, simCfg, make(sim.State, 6))

			Expect(result.Data.Len()).To(Equal(simCfg.N + 1))

			finalEta, finalNu := result.Final()
			errDeg := gnc.Ssa(finalEta[5]-(-80*gnc.D2R)) * gnc.R2D
			Expect(math.Abs(errDeg)).To(BeNumerically("<", 1.0))

			// Settled on the new course: sway and yaw rate die out.
			Expect(math.Abs(finalNu[1])).To(BeNumerically("<", 0.1))
			Expect(math.Abs(finalNu[5])).To(BeNumerically("<", 0.01))
		})

		It("keeps every sample finite", func() {
			cfg := DefaultConfig()
			simCfg.N = 18000
			simCfg.NormLimit = 10 * cfg.DesiredSpeed

			result := simulate(cfg, simCfg, make(sim.State, 6))

			for i := 0; i < result.Data.Len(); i++ {
				row := result.Data.Row(i)
				for j, v := range row {
					Expect(math.IsNaN(v) || math.IsInf(v, 0)).To(BeFalse(),
						"row %d col %d not finite", i, j)
				}
			}
		})

		It("respects the steering gear limits throughout", func() {
			cfg := DefaultConfig()
			simCfg.N = 18000
			simCfg.NormLimit = 10 * cfg.DesiredSpeed

			result := simulate(cfg, simCfg, make(sim.State, 6))

			deltaMax := cfg.RudderMaxDeg * gnc.D2R
			rateMax := cfg.RudderRateMaxDeg * gnc.D2R
			for i := 0; i < result.Data.Len(); i++ {
				delta := result.Data.UActual(i)[0]
				Expect(math.Abs(delta)).To(BeNumerically("<=", deltaMax+1e-9))
				if i > 0 {
					prev := result.Data.UActual(i - 1)[0]
					Expect(math.Abs(delta-prev)).To(BeNumerically("<=", rateMax*simCfg.Dt+1e-9))
				}
			}
		})
	})

	Describe("wrapped reference angles", func() {
		It("takes the short way across the discontinuity", func() {
			// Start at -170 deg, steer to 170 deg: 20 degrees through the
			// wrap, not 340 degrees back around.
			cfg := DefaultConfig()
			cfg.HeadingDeg = 170
			cfg.CurrentEnabled = false
			cfg.CurrentSpeed = 0
			simCfg.N = 6000

			etaInit := make(sim.State, 6)
			etaInit[5] = -170 * gnc.D2R

			result := simulate(cfg, simCfg, etaInit)

			finalEta, _ := result.Final()
			errDeg := gnc.Ssa(finalEta[5]-170*gnc.D2R) * gnc.R2D
			Expect(math.Abs(errDeg)).To(BeNumerically("<", 1.0))

			// A short-way turn never accumulates a large unwrapped excursion.
			yaw := result.Data.Column(5)
			for _, psi := range yaw {
				Expect(math.Abs(gnc.Ssa(psi-etaInit[5]))*gnc.R2D).To(BeNumerically("<", 60.0))
			}
		})
	})
})
