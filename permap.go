// Package permap builds heat pump performance maps for the TRNSYS Type 3254
// component.
//
// Usage:
//
//	import "github.com/spektr-org/permap/engine"
//
//	m, err := engine.New(tbl, engine.WithLogger(logger))
//	m, err = m.SetMode("heating")
//	m, err = m.Fill(engine.WithRated(engine.Rated{"capacity": 7, "power": 2}))
//	err = engine.WriteType3254File("hp.dat", m, engine.RowMajor)
//
// The engine takes a partial performance table (measured at a few operating
// conditions) and extends it along the dimensions it lacks with correction
// curves, normalizes it by the rated values and, in cooling mode, splits
// capacity into sensible and latent parts.
//
// Reading manufacturer CSV exports is handled by the helpers package.
// The engine never touches the filesystem except in WriteType3254File.
package permap
