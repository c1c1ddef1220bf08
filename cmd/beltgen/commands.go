package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/beltline/internal/belt"
	"github.com/Faultbox/beltline/internal/config"
	"github.com/Faultbox/beltline/internal/geometry"
	"github.com/Faultbox/beltline/internal/validation"
)

// exitInvalid is returned when the configured belt does not validate.
const exitInvalid = 2

func build(cfg *config.Config) (*belt.Controller, error) {
	ctrl, err := cfg.NewController()
	if err != nil {
		return nil, err
	}
	ctrl.Setup()
	return ctrl, nil
}

func cmdCheck(w io.Writer, cfg *config.Config) (int, error) {
	ctrl, err := build(cfg)
	if err != nil {
		return 0, err
	}

	v := ctrl.Verdict()
	opts := ctrl.Options()
	fmt.Fprintf(w, "Mode:      %s\n", opts.Path.Mode)
	fmt.Fprintf(w, "Topology:  %s\n", opts.Path.Topology)
	fmt.Fprintf(w, "Anchors:   %d rollers, %d poles\n", v.Rollers, v.Poles)
	fmt.Fprintf(w, "Distance:  %.3f\n", v.RollerDistance)
	fmt.Fprintf(w, "Bend:      %.2f deg\n", v.BendAngle)
	fmt.Fprintf(w, "Verdict:   %s\n", v.State)
	for _, r := range v.Reasons() {
		fmt.Fprintf(w, "  - %s\n", r)
	}
	if snap := ctrl.Snapshot(); !snap.Empty() {
		fmt.Fprintf(w, "Path:      %d points, length %.3f\n", snap.Path.Len(), snap.Path.Length())
		fmt.Fprintf(w, "Mesh:      %d vertices, %d triangles\n", len(snap.Mesh.Vertices), snap.Mesh.TriangleCount())
	}

	if v.State == validation.Invalid {
		return exitInvalid, nil
	}
	return 0, nil
}

func cmdExport(stdout io.Writer, cfg *config.Config, args []string) (int, error) {
	ctrl, err := build(cfg)
	if err != nil {
		return 0, err
	}
	if ctrl.Snapshot().Empty() {
		return exitInvalid, fmt.Errorf("no geometry: %s", ctrl.Verdict())
	}

	w := stdout
	if len(args) > 0 {
		f, err := os.Create(args[0])
		if err != nil {
			return 0, err
		}
		defer f.Close()
		w = f
	}
	if err := geometry.WriteOBJ(w, "belt", ctrl.Mesh()); err != nil {
		return 0, err
	}
	return 0, nil
}

func cmdInit(w io.Writer, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote %s\n", config.ConfigDir())
		return nil
	}
	if err := cfg.SaveTo(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s\n", args[0])
	return nil
}
