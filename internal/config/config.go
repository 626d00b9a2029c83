// Package config loads SolverParams, the one genuinely external
// configuration surface this system exposes: solve time budget,
// worker count, and the fixed calendar grid constants.
package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// SolverParams is external configuration with enumerated recognized
// options. PeriodsPerDay and DaysPerWeek are fixed by the domain
// but still validated so a misconfigured environment fails loudly.
type SolverParams struct {
	TimeLimitSeconds float64 `mapstructure:"time_limit_seconds" validate:"required,gt=0"`
	NumWorkers       int     `mapstructure:"num_workers" validate:"required,gte=1"`
	LabRoomCapacity  int     `mapstructure:"lab_room_capacity" validate:"required,gte=1"`
	PeriodsPerDay    int     `mapstructure:"periods_per_day" validate:"required,eq=8"`
	DaysPerWeek      int     `mapstructure:"days_per_week" validate:"required,eq=6"`
	DefaultWeeks     int     `mapstructure:"default_weeks" validate:"required,gte=1"`
}

var validate = validator.New()

func defaults() SolverParams {
	return SolverParams{
		TimeLimitSeconds: 60,
		NumWorkers:       4,
		LabRoomCapacity:  2,
		PeriodsPerDay:    8,
		DaysPerWeek:      6,
		DefaultWeeks:     19,
	}
}

// Load reads SolverParams from the named config file (if present) and
// environment variables prefixed SCHEDULER_, falling back to the
// documented defaults, then validates the result.
func Load(configPath string) (SolverParams, error) {
	v := viper.New()
	d := defaults()
	v.SetDefault("time_limit_seconds", d.TimeLimitSeconds)
	v.SetDefault("num_workers", d.NumWorkers)
	v.SetDefault("lab_room_capacity", d.LabRoomCapacity)
	v.SetDefault("periods_per_day", d.PeriodsPerDay)
	v.SetDefault("days_per_week", d.DaysPerWeek)
	v.SetDefault("default_weeks", d.DefaultWeeks)

	v.SetEnvPrefix("SCHEDULER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return SolverParams{}, errors.Wrap(err, "config: reading solver params file")
			}
		}
	}

	var params SolverParams
	if err := v.Unmarshal(&params); err != nil {
		return SolverParams{}, errors.Wrap(err, "config: unmarshaling solver params")
	}

	if err := validate.Struct(params); err != nil {
		return SolverParams{}, errors.Wrap(err, "config: invalid solver params")
	}

	return params, nil
}
