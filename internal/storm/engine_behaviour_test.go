package storm_test

import (
	"io"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rossv/designstorms-sub000/internal/betainc"
	"github.com/rossv/designstorms-sub000/internal/catalog"
	"github.com/rossv/designstorms-sub000/internal/sampler"
	"github.com/rossv/designstorms-sub000/internal/storm"
)

var _ = Describe("Engine", func() {
	var (
		engine *storm.Engine
		params storm.Params
	)

	BeforeEach(func() {
		engine = storm.NewEngine(
			catalog.Default(),
			sampler.New(sampler.NewLRU(16)),
			slog.New(slog.NewTextHandler(io.Discard, nil)),
		)
		params = storm.Params{
			Depth:           3,
			DurationHours:   24,
			TimestepMinutes: 6,
			Distribution:    "scs_type_ii",
		}
	})

	Context("with a table family in standard mode", func() {
		It("locks the axis to the native table", func() {
			r, err := engine.GenerateStrict(params)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.TimestepLocked).To(BeTrue())
			Expect(r.TimeMinutes).To(HaveLen(241))
			Expect(r.Distribution).To(Equal("scs_type_ii_24hr"))
		})

		It("conserves the total depth", func() {
			r := engine.Generate(params)
			Expect(r.Cumulative[r.Len()-1]).To(BeNumerically("~", params.Depth, 1e-9))
			Expect(r.Stats().TotalDepth).To(BeNumerically("~", params.Depth, 1e-9))
			Expect(r.Fallbacks).To(BeEmpty())
		})

		It("places the peak near the middle of the storm", func() {
			s := engine.Generate(params).Stats()
			Expect(s.TimeToPeakMinutes).To(BeNumerically("~", 720, 30))
		})

		It("applies smoothing on the requested timestep", func() {
			params.TimestepMinutes = 5
			linearParams := params
			linearParams.DurationMode = storm.Custom
			linear := engine.Generate(linearParams)

			params.Smoothing = true
			r := engine.Generate(params)
			Expect(r.SmoothingApplied).To(BeTrue())
			Expect(r.Fallbacks).To(BeEmpty())
			Expect(r.TimeMinutes).To(Equal(linear.TimeMinutes))
			Expect(r.Cumulative[r.Len()-1]).To(BeNumerically("~", params.Depth, 1e-9))
			Expect(r.Cumulative).NotTo(Equal(linear.Cumulative))
		})
	})

	Context("with a Beta preset", func() {
		BeforeEach(func() {
			params.Distribution = "huff_q4"
			params.DurationHours = 2
			params.TimestepMinutes = 5
		})

		It("samples at the requested timestep", func() {
			r := engine.Generate(params)
			Expect(r.TimestepLocked).To(BeFalse())
			Expect(r.TimeMinutes).To(HaveLen(25))
			Expect(r.EffectiveTimestep).To(Equal(5.0))
		})

		It("loads the storm late for a fourth-quartile shape", func() {
			s := engine.Generate(params).Stats()
			Expect(s.TimeToPeakMinutes).To(BeNumerically(">", 60))
		})

		It("agrees between fidelities", func() {
			precise := engine.Generate(params)
			params.Fidelity = betainc.Fast
			fast := engine.Generate(params)
			Expect(fast.Len()).To(Equal(precise.Len()))
			for i := range fast.Cumulative {
				Expect(fast.Cumulative[i]).To(BeNumerically("~", precise.Cumulative[i], 0.05))
			}
		})

		It("reports smoothing as unsupported without changing the series", func() {
			plain := engine.Generate(params)
			params.Smoothing = true
			r := engine.Generate(params)
			Expect(r.SmoothingApplied).To(BeFalse())
			Expect(r.Cumulative).To(Equal(plain.Cumulative))
			Expect(r.Fallbacks).To(ConsistOf(storm.FallbackSmoothingUnsupported))
		})
	})

	Context("with invalid input", func() {
		It("returns the single zero sample", func() {
			params.DurationHours = -1
			r := engine.Generate(params)
			Expect(r.TimeMinutes).To(Equal([]float64{0}))
			Expect(r.Intensity).To(Equal([]float64{0}))
		})

		It("fails in strict mode", func() {
			params.Distribution = "mystery"
			_, err := engine.GenerateStrict(params)
			Expect(err).To(MatchError(storm.ErrDistributionNotFound))
		})
	})
})
