/*
 * main.go, part of goDock.
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

// Command godock prepares docking runs and processes their results.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	chem "github.com/rmera/godock"
	"github.com/rmera/godock/babel"
	"github.com/rmera/godock/config"
)

var verb int

// If level is larger or equal, prints the d arguments to stderr
// otherwise, does nothing.
func LogV(level int, d ...interface{}) {
	if level <= verb {
		fmt.Fprintln(os.Stderr, d...)
	}
}

type command struct {
	name            string
	positionalUsage string
	shortHelp       string
	flags           *flag.FlagSet
	nargs           int //minimum number of positional arguments
	run             func(ctx context.Context, c *command, cfg *config.Config) error
	addFlags        func(c *command, cfg *config.Config)
}

func (c *command) usage() {
	fmt.Fprintf(c.flags.Output(), "Usage:\n  godock [global flags] %s [flags] %s\n\n%s\n\nFlags:\n", c.name, c.positionalUsage, c.shortHelp)
	c.flags.PrintDefaults()
}

var commands = map[string]*command{}

func register(c *command) {
	c.flags = flag.NewFlagSet(c.name, flag.ExitOnError)
	c.flags.Usage = c.usage
	commands[c.name] = c
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage:\n  %s [global flags] command [flags] arguments\n\nCommands:\n", os.Args[0])
	names := make([]string, 0, len(commands))
	for k := range commands {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(flag.CommandLine.Output(), "  %-10s %s\n", n, commands[n].shortHelp)
	}
	fmt.Fprintf(flag.CommandLine.Output(), "\nGlobal flags:\n")
	flag.PrintDefaults()
}

// converter returns obabel if it can be found, and the native readers otherwise,
// or if native is true.
func converter(cfg *config.Config, native bool) chem.Converter {
	if !native {
		if _, err := exec.LookPath(cfg.Programs.OBabel); err == nil {
			b := babel.NewHandle()
			b.SetCommand(cfg.Programs.OBabel)
			LogV(2, "Using", cfg.Programs.OBabel, "to read the structures")
			return b
		}
	}
	LogV(2, "Using the native readers")
	return chem.NativeConverter{}
}

// parses a "x,y,z" string.
func parseTriplet(s string) ([3]float64, error) {
	var ret [3]float64
	f := strings.Split(s, ",")
	if len(f) != 3 {
		return ret, fmt.Errorf("expected 3 comma-separated numbers, got %q", s)
	}
	for i, v := range f {
		var err error
		ret[i], err = strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return ret, err
		}
	}
	return ret, nil
}

// signalContext returns a context that is cancelled on an interrupt or a SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	verbose := flag.Int("v", 1, "Level of verbosity")
	cfgfile := flag.String("config", "", "Configuration file. By default, godock.yaml is looked for in the current directory and in $HOME/.godock")
	flag.Usage = usage
	flag.Parse()
	verb = *verbose
	log.SetFlags(0)
	log.SetPrefix("godock: ")
	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}
	c, ok := commands[args[0]]
	if !ok {
		log.Printf("unknown command %q", args[0])
		usage()
		os.Exit(1)
	}
	cfg, err := config.Load(*cfgfile)
	if err != nil {
		log.Fatalf("can't read the configuration: %v", err)
	}
	if cfg.File != "" {
		LogV(2, "Configuration read from", cfg.File)
	}
	if c.addFlags != nil {
		c.addFlags(c, cfg)
	}
	c.flags.Parse(args[1:])
	if c.flags.NArg() < c.nargs {
		c.usage()
		os.Exit(1)
	}
	ctx, stop := signalContext()
	err = c.run(ctx, c, cfg)
	stop()
	if err != nil {
		err = errors.Wrap(err, c.name)
		if verb >= 3 {
			log.Printf("%+v", err)
		} else {
			log.Print(err)
		}
		os.Exit(1)
	}
}
