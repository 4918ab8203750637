package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"fanctl/internal/config"
	"fanctl/internal/logger"
)

// flagValues holds raw flag input. Only flags the user set override the
// configuration file.
type flagValues struct {
	configPath string

	force    int
	gpu      bool
	log      bool
	maxTemp  float64
	minTemp  float64
	minPWM   int
	logPath  string
	quiet    bool
	interval time.Duration

	backend    string
	pwmPath    string
	sensorKind string
	sensorPath string
	lockPath   string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var fv flagValues

	cmd := &cobra.Command{
		Use:   "fanctl",
		Short: "Set the fan speed from the SoC temperature.",
		Long: `Reads the CPU (or GPU) thermal zone, maps the temperature onto a linear
ramp between --min and --max and writes the resulting PWM value to the fan.

Below --min the fan is switched off, at or above --max it runs at full speed.
Non-zero speeds below --minpwm are raised to --minpwm so the fan does not stall.
By default a single cycle is run; use --interval to keep running.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(fv.configPath)
			if err != nil {
				logger.Errorf(ctx, "config load failed: %v", err)
				return err
			}
			fv.apply(cmd.Flags(), &cfg)
			if err := cfg.Validate(); err != nil {
				logger.Errorf(ctx, "invalid configuration: %v", err)
				return err
			}

			if err := run(ctx, cfg); err != nil {
				logger.Errorf(ctx, "%v", err)
				return err
			}
			return nil
		},
	}

	fv.register(cmd.Flags())

	return cmd
}

func (fv *flagValues) register(f *pflag.FlagSet) {
	f.StringVarP(&fv.configPath, "config", "c", "", "path to YAML configuration file")
	f.IntVarP(&fv.force, "force", "f", 0, "set a static fan speed, values from 0-100")
	f.BoolVar(&fv.gpu, "gpu", false, "use GPU temperature instead of CPU temperature")
	f.BoolVarP(&fv.log, "log", "l", false, "log to a file, set path with '--path'")
	f.Float64Var(&fv.maxTemp, "max", config.DefaultMaxTempC, "fan speed will be maximum above this temperature (C)")
	f.Float64Var(&fv.minTemp, "min", config.DefaultMinTempC, "fan will only switch on above this temperature (C)")
	f.IntVar(&fv.minPWM, "minpwm", 24, "minimum fan speed, values from 0-100 (default: PWM value 60)")
	f.StringVarP(&fv.logPath, "path", "p", "", "path of the log file (default: fan_controller.log next to the binary)")
	f.BoolVarP(&fv.quiet, "quiet", "q", false, "run quietly")
	f.DurationVar(&fv.interval, "interval", 0, "repeat the control cycle at this interval (0 runs once)")
	f.StringVar(&fv.backend, "backend", "hwmon", "fan backend: hwmon, pwmchip, gpio or rpio")
	f.StringVar(&fv.pwmPath, "pwm-path", "", "hwmon pwm attribute or pwmchip directory")
	f.StringVar(&fv.sensorKind, "sensor", "thermal", "temperature sensor: thermal or bmp280")
	f.StringVar(&fv.sensorPath, "sensor-path", "", "thermal zone file (overrides --gpu)")
	f.StringVar(&fv.lockPath, "lock", "", "lock file preventing overlapping runs")
	f.StringVar(&fv.logLevel, "log-level", "info", "console log level: debug, info, warn or error")
}

// apply copies explicitly set flags over cfg.
func (fv *flagValues) apply(flags *pflag.FlagSet, cfg *config.Config) {
	set := flags.Changed
	if set("force") {
		v := fv.force
		cfg.Control.ForcePercent = &v
	}
	if set("minpwm") {
		v := fv.minPWM
		cfg.Control.MinDutyPercent = &v
	}
	if set("max") {
		cfg.Control.MaxTempC = fv.maxTemp
	}
	if set("min") {
		cfg.Control.MinTempC = fv.minTemp
	}
	if set("interval") {
		cfg.Control.Interval = fv.interval
	}
	if set("gpu") {
		cfg.Sensor.GPU = fv.gpu
	}
	if set("sensor") {
		cfg.Sensor.Kind = fv.sensorKind
	}
	if set("sensor-path") {
		cfg.Sensor.Path = fv.sensorPath
	}
	if set("log") {
		cfg.Log.Enable = fv.log
	}
	if set("path") {
		cfg.Log.Path = fv.logPath
	}
	if set("quiet") {
		cfg.Log.Quiet = fv.quiet
	}
	if set("log-level") {
		cfg.Log.Level = fv.logLevel
	}
	if set("backend") {
		cfg.Actuator.Backend = fv.backend
	}
	if set("pwm-path") {
		cfg.Actuator.Path = fv.pwmPath
	}
	if set("lock") {
		cfg.LockPath = fv.lockPath
	}
}

