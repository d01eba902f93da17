/*
 * runner.go, part of goDock.
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

package vina

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// Vina prints a progress bar of 51 asterisks.
const progressMarks = 51

// Runner runs AutoDock Vina.
type Runner struct {
	command  string
	wrkdir   string
	Log      io.Writer     //Vina's standard output goes here, if not nil
	Progress func(float64) //called with the progress, from 0 to 100, if not nil
}

// NewRunner returns a Runner for the "vina" executable.
func NewRunner() *Runner {
	return &Runner{command: "vina"}
}

// SetCommand sets the path and name for the vina excecutable
func (R *Runner) SetCommand(name string) {
	R.command = name
}

// Command returns the path and name for the vina excecutable
func (R *Runner) Command() string {
	return R.command
}

// SetWorkDir sets the directory where Vina is run.
func (R *Runner) SetWorkDir(d string) {
	R.wrkdir = d
}

type progress struct {
	value float64
	f     func(float64)
}

func (p *progress) set(v float64) {
	p.value = v
	if p.f != nil {
		p.f(v)
	}
}

// Run runs Vina with the configuration file config. The configuration and everything
// Vina prints go to R.Log, and the progress, taken from Vina's progress bar, is
// reported to R.Progress. If Vina fails, the error contains what it printed to stderr.
func (R *Runner) Run(ctx context.Context, config string) error {
	path, err := exec.LookPath(R.command)
	if err != nil {
		return errors.Wrapf(err, "%s not found", R.command)
	}
	conf, err := os.ReadFile(config)
	if err != nil {
		return errors.WithStack(err)
	}
	logw := R.Log
	if logw == nil {
		logw = io.Discard
	}
	fmt.Fprintf(logw, "program: %s\n", R.command)
	logw.Write(conf)
	cmd := exec.CommandContext(ctx, path, "--config", config)
	cmd.Dir = R.wrkdir
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.WithStack(err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return errors.WithStack(err)
	}
	prog := &progress{f: R.Progress}
	prog.set(1.0)
	buf := make([]byte, 1024)
	for {
		n, err := stdout.Read(buf)
		if n > 0 {
			d := buf[:n]
			for _, b := range d {
				if b == '*' {
					prog.set(min(prog.value+98.0/progressMarks, 99.0))
				}
			}
			if _, err := logw.Write(d); err != nil {
				cmd.Wait()
				return errors.WithStack(err)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			cmd.Wait()
			return errors.WithStack(err)
		}
	}
	if err := cmd.Wait(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return errors.New(msg)
	}
	prog.set(100.0)
	return nil
}

// Dock writes the configuration C to the file config and runs Vina with it.
func (R *Runner) Dock(ctx context.Context, C *Config, config string) error {
	if err := C.WriteFile(config); err != nil {
		return errors.WithStack(err)
	}
	return R.Run(ctx, config)
}
