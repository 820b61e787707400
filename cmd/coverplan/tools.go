package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cjeanneret/coverplan/internal/coverage"
	"github.com/cjeanneret/coverplan/internal/diagram"
	"github.com/cjeanneret/coverplan/internal/logic/geometry"
	"github.com/cjeanneret/coverplan/internal/logic/optics"
	"github.com/cjeanneret/coverplan/internal/logic/projection"
)

func metres(v float64) string {
	if v >= projection.Unbounded {
		return "unbounded"
	}
	return fmt.Sprintf("%.2f m", v)
}

func newDoriCmd() *cobra.Command {
	var (
		resolution string
		focal      float64
		sensor     string
		span       float64
		aspect     bool
	)
	cmd := &cobra.Command{
		Use:   "dori",
		Short: "Print the DORI distances of a camera",
		Long: `Print the distances at which a camera reaches the detection,
observation, recognition and identification pixel densities.

The horizontal view angle comes from --focal and --sensor when a focal
length is given, else from --span.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if focal > 0 {
				angles, ok := optics.CameraAngles(focal, sensor, aspect)
				if !ok {
					return fmt.Errorf("no view angle for focal %.2f mm on sensor %q", focal, sensor)
				}
				span = float64(angles.PlanDeg)
			}
			d, ok := optics.DoriDistances(resolution, aspect, span)
			if !ok {
				return fmt.Errorf("no DORI distances for resolution %q over %.1f°", resolution, span)
			}

			t := newTable("Level", "Density", "Distance", "Colour")
			densities := []float64{optics.DetectionPxPerM, optics.ObservationPxPerM, optics.RecognitionPxPerM, optics.IdentificationPxPerM}
			for i, z := range d.Zones() {
				t.Row(z.Name, fmt.Sprintf("%.1f px/m", densities[i]), metres(z.Distance), swatch(z.Color))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styleTitle.Render(fmt.Sprintf("DORI %s over %.1f°", resolution, span)))
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}
	cmd.Flags().StringVar(&resolution, "resolution", "4MP", `resolution, "WxH" or "NMP"`)
	cmd.Flags().Float64Var(&focal, "focal", 0, "focal length in mm (0 = use --span)")
	cmd.Flags().StringVar(&sensor, "sensor", "1/2.8", `sensor format, e.g. "1/2.8"`)
	cmd.Flags().Float64Var(&span, "span", 90, "horizontal view angle in degrees")
	cmd.Flags().BoolVar(&aspect, "aspect", false, "camera mounted in portrait (corridor) mode")
	return cmd
}

func newDiagramCmd() *cobra.Command {
	var (
		height, tilt, fov, maxRange float64
		out                         string
	)
	cmd := &cobra.Command{
		Use:   "diagram",
		Short: "Draw the side view of a mounted camera",
		RunE: func(cmd *cobra.Command, args []string) error {
			if height <= 0 {
				return fmt.Errorf("--height must be positive, got %g", height)
			}
			if fov <= 0 || fov >= 180 {
				return fmt.Errorf("--fov must be between 0 and 180, got %g", fov)
			}
			r := projection.GroundRanges(height, tilt, fov)
			l := diagram.Build(diagram.Params{
				HeightM:      height,
				TiltDeg:      tilt,
				MaxDistanceM: math.Min(maxRange, r.MaxDist),
				DeadZoneM:    r.MinRange,
				VFovDeg:      fov,
			})
			if err := diagram.Save(out, l); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			t := newTable("Height", "Tilt", "FOV", "Dead zone", "Floor reach")
			t.Row(fmt.Sprintf("%.2f m", height), fmt.Sprintf("%.1f°", tilt), fmt.Sprintf("%.1f°", fov), metres(r.MinRange), metres(r.MaxDist))
			fmt.Fprintln(w, t.Render())
			for _, c := range l.Callouts {
				fmt.Fprintf(w, "  %s: %s\n", c.Kind, c.Text)
			}
			if r.Unbounded {
				fmt.Fprintln(w, styleWarn.Render("  the top of the view never meets the floor"))
			}
			fmt.Fprintf(w, "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().Float64Var(&height, "height", 3, "mounting height in metres")
	cmd.Flags().Float64Var(&tilt, "tilt", 30, "tilt below the horizon in degrees")
	cmd.Flags().Float64Var(&fov, "fov", 60, "vertical field of view in degrees")
	cmd.Flags().Float64Var(&maxRange, "range", 15, "configured maximum range in metres")
	cmd.Flags().StringVar(&out, "out", "side.png", "output file; the extension picks png, svg, pdf or eps")
	return cmd
}

// polygonArea returns the area enclosed by pts (shoelace formula).
func polygonArea(pts []geometry.Point) float64 {
	var a float64
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(a) / 2
}

func newCoverageCmd() *cobra.Command {
	var (
		start, end, maxRange float64
		height, tilt, fov    float64
		ppm                  float64
		mode                 string
		verbose              bool
	)
	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Summarise the coverage polygon of a camera on an empty plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("ppm") {
				ppm = cfg.Plan.PixelsPerMeter
			}
			if _, err := geometry.ParseProjection(mode); err != nil {
				return err
			}

			c := coverage.Resolve(&coverage.Record{
				StartAngle:     &start,
				EndAngle:       &end,
				MaxRange:       &maxRange,
				CameraHeight:   &height,
				CameraTilt:     &tilt,
				SideFOV:        &fov,
				ProjectionMode: &mode,
			}, coverage.StandardDefaults(), ppm)
			r := coverage.ApplyPhysics(&c, ppm)
			if !c.Valid() {
				return fmt.Errorf("no coverage: dead zone %.2f m reaches the far edge %.2f m", c.MinRange/ppm, c.Radius/ppm)
			}

			pts := geometry.NewCaster(cfg.Projection).Polygon(nil, geometry.Point{}, c.StartAngle, c.EndAngle, c.Radius, c.MinRange, c.Projection)
			w := cmd.OutOrStdout()
			t := newTable("Span", "Projection", "Radius", "Dead zone", "Points", "Area")
			t.Row(
				fmt.Sprintf("%.1f°", c.Span()),
				c.Projection.String(),
				fmt.Sprintf("%.1f px (%.2f m)", c.Radius, c.Radius/ppm),
				fmt.Sprintf("%.1f px", c.MinRange),
				fmt.Sprint(len(pts)),
				fmt.Sprintf("%.1f m²", polygonArea(pts)/(ppm*ppm)),
			)
			fmt.Fprintln(w, styleTitle.Render(fmt.Sprintf("Coverage %.0f° → %.0f°", c.StartAngle, c.EndAngle)))
			fmt.Fprintln(w, t.Render())
			if r.Unbounded {
				fmt.Fprintln(w, styleWarn.Render("  far edge limited by the configured range only"))
			}
			if verbose {
				var b strings.Builder
				for _, p := range pts {
					fmt.Fprintf(&b, "  (%.1f, %.1f)\n", p.X, p.Y)
				}
				fmt.Fprint(w, b.String())
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&start, "start", 270, "start angle in degrees clockwise from +X")
	cmd.Flags().Float64Var(&end, "end", 0, "end angle in degrees clockwise from +X")
	cmd.Flags().Float64Var(&maxRange, "range", 15, "maximum range in metres")
	cmd.Flags().Float64Var(&height, "height", 0, "mounting height in metres (0 = ignore physics)")
	cmd.Flags().Float64Var(&tilt, "tilt", 30, "tilt below the horizon in degrees")
	cmd.Flags().Float64Var(&fov, "fov", 60, "vertical field of view in degrees")
	cmd.Flags().Float64Var(&ppm, "ppm", 17.5, "plan pixels per metre")
	cmd.Flags().StringVar(&mode, "projection", "circular", "circular or rectangular")
	cmd.Flags().BoolVarP(&verbose, "points", "p", false, "print every polygon point")
	return cmd
}
