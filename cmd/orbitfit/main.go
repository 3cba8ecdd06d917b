package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/luminastro/orbitfit/pkg/model"
	"github.com/luminastro/orbitfit/pkg/utils"
)

const version = "0.1.0"

var (
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "orbitfit",
		Short: "Exoplanet transit and radial-velocity forward modeling",
		Long: `Evaluates multi-planet transit light curves and radial-velocity curves
with per-dataset parametric and spline baselines, writing detrended
model tables for each dataset.`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		initCmd(),
		lightcurveCmd(),
		rvCmd(),
		evaluateCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("output")
			if _, err := os.Stat(out); err == nil {
				return fmt.Errorf("%s already exists, refusing to overwrite", out)
			}
			if err := utils.SaveConfig(utils.DefaultConfig(), out); err != nil {
				return err
			}
			fmt.Printf("Configuration written to: %s\n", out)
			return nil
		},
	}
	cmd.Flags().String("output", "config.yaml", "path of the configuration file to create")
	return cmd
}

func lightcurveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lightcurve",
		Short: "Evaluate the model for every configured light curve",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := utils.LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			return runLightCurves(cfg)
		},
	}
}

func rvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rv",
		Short: "Evaluate the model for every configured radial-velocity dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := utils.LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			return runRVs(cfg)
		},
	}
}

func evaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate the model for every configured dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := utils.LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			if err := runLightCurves(cfg); err != nil {
				return err
			}
			return runRVs(cfg)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("orbitfit", version)
		},
	}
}

// runLightCurves evaluates every photometric dataset concurrently; the
// datasets are independent given the shared physical model.
func runLightCurves(cfg *utils.Config) error {
	if len(cfg.LightCurves) == 0 {
		return nil
	}
	if err := ensureOutputDir(cfg); err != nil {
		return err
	}
	t0s, pers := cfg.Ephemeris()

	var g errgroup.Group
	for _, lc := range cfg.LightCurves {
		lc := lc
		g.Go(func() error {
			ds, err := model.Load(lc.File)
			if err != nil {
				return err
			}
			baseCoeffs, err := lc.Baseline.ResolveLC()
			if err != nil {
				return fmt.Errorf("%s: %w", lc.File, err)
			}
			out, err := model.EvaluatePhotometric(ds, &model.PhotometricInput{
				Transit:       cfg.TransitModel(),
				Supersampler:  lc.Supersampler(),
				Contamination: lc.Contamination,
				Baseline:      baseCoeffs,
				Spline:        lc.Spline.Resolve(),
			})
			if err != nil {
				return fmt.Errorf("%s: %w", lc.File, err)
			}
			path := outputPath(cfg, lc.File, "_lcout.dat")
			if err := model.WriteTableFile(path, ds, out, t0s, pers); err != nil {
				return err
			}
			if verbose {
				log.Printf("lightcurve %s -> %s (%d points)", lc.File, path, len(ds.Time))
			}
			return nil
		})
	}
	return g.Wait()
}

func runRVs(cfg *utils.Config) error {
	if len(cfg.RVs) == 0 {
		return nil
	}
	if err := ensureOutputDir(cfg); err != nil {
		return err
	}
	t0s, pers := cfg.Ephemeris()

	var g errgroup.Group
	for _, rvc := range cfg.RVs {
		rvc := rvc
		g.Go(func() error {
			ds, err := model.Load(rvc.File)
			if err != nil {
				return err
			}
			baseCoeffs, err := rvc.Baseline.ResolveRV()
			if err != nil {
				return fmt.Errorf("%s: %w", rvc.File, err)
			}
			out, err := model.EvaluateRV(ds, &model.RVInput{
				RV:       cfg.RVModel(rvc.Gamma),
				Baseline: baseCoeffs,
				Spline:   rvc.Spline.Resolve(),
			})
			if err != nil {
				return fmt.Errorf("%s: %w", rvc.File, err)
			}
			path := outputPath(cfg, rvc.File, "_rvout.dat")
			if err := model.WriteTableFile(path, ds, out, t0s, pers); err != nil {
				return err
			}
			if verbose {
				log.Printf("rv %s -> %s (%d points)", rvc.File, path, len(ds.Time))
			}
			return nil
		})
	}
	return g.Wait()
}

func ensureOutputDir(cfg *utils.Config) error {
	if cfg.Output.Dir == "" {
		return nil
	}
	return os.MkdirAll(cfg.Output.Dir, 0755)
}

func outputPath(cfg *utils.Config, input, suffix string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(cfg.Output.Dir, base+suffix)
}
