/*
 * config.go, part of goDock.
 *
 * Copyright 2024 The goDock Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package config reads the goDock configuration: paths to the external programs,
// and defaults for the docking tools.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Programs contains the commands used to run the external programs.
type Programs struct {
	OBabel   string `mapstructure:"obabel"`
	PDBFixer string `mapstructure:"pdbfixer"`
	Reduce   string `mapstructure:"reduce"`
	Vina     string `mapstructure:"vina"`
}

// Fix contains the defaults for protein preparation.
type Fix struct {
	PH             float64 `mapstructure:"ph"`
	KeepHeterogens string  `mapstructure:"keep_heterogens"`
	Renumber       bool    `mapstructure:"renumber"`
}

// LeDock contains the defaults for LeDock inputs.
type LeDock struct {
	RMSD   float64 `mapstructure:"rmsd"`
	NPoses int     `mapstructure:"nposes"`
}

// Vina contains the defaults for Vina configurations.
type Vina struct {
	Exhaustiveness int     `mapstructure:"exhaustiveness"`
	NumModes       int     `mapstructure:"num_modes"`
	EnergyRange    float64 `mapstructure:"energy_range"`
	CPU            int     `mapstructure:"cpu"`
}

// Scaffold contains the defaults for scaffold-based conformer generation.
type Scaffold struct {
	NumConfs  int     `mapstructure:"num_confs"`
	PruneRMS  float64 `mapstructure:"prune_rms"`
	Threshold float64 `mapstructure:"threshold"`
}

// Config is the goDock configuration.
type Config struct {
	Programs Programs `mapstructure:"programs"`
	Padding  float64  `mapstructure:"padding"`
	Fix      Fix      `mapstructure:"fix"`
	LeDock   LeDock   `mapstructure:"ledock"`
	Vina     Vina     `mapstructure:"vina"`
	Scaffold Scaffold `mapstructure:"scaffold"`
	File     string   `mapstructure:"-"` //the file read, if any
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("programs.obabel", "obabel")
	v.SetDefault("programs.pdbfixer", "pdbfixer")
	v.SetDefault("programs.reduce", "reduce")
	v.SetDefault("programs.vina", "vina")
	v.SetDefault("padding", 6.0)
	v.SetDefault("fix.ph", 7.4)
	v.SetDefault("fix.keep_heterogens", "water")
	v.SetDefault("fix.renumber", true)
	v.SetDefault("ledock.rmsd", 1.0)
	v.SetDefault("ledock.nposes", 10)
	v.SetDefault("vina.exhaustiveness", 8)
	v.SetDefault("vina.num_modes", 9)
	v.SetDefault("vina.energy_range", 3.0)
	v.SetDefault("vina.cpu", 0)
	v.SetDefault("scaffold.num_confs", 50)
	v.SetDefault("scaffold.prune_rms", 0.75)
	v.SetDefault("scaffold.threshold", 0.75)
}

// Load reads the configuration. If path is not empty, that file is read and
// must exist. Otherwise, a godock.yaml file is looked for in the working directory
// and in $HOME/.godock, and the defaults are used if none is found.
// Any value can be overridden with an environment variable GODOCK_SECTION_KEY,
// for instance GODOCK_PROGRAMS_VINA.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("godock")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("godock")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".godock"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &nf) {
			return nil, err
		}
	}
	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.File = v.ConfigFileUsed()
	return cfg, nil
}
