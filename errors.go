/*
 * errors.go, part of goDock.
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

package chem

import "fmt"

// ParseError is returned when a structure file can't be parsed.
// Line is 1-based, and 0 when the error is not tied to a line.
type ParseError struct {
	File   string
	Format string
	Line   int
	Msg    string
	Err    error
}

func (P *ParseError) Error() string {
	where := P.File
	if where == "" {
		where = "<stream>"
	}
	msg := fmt.Sprintf("%s: %s", P.Format, where)
	if P.Line > 0 {
		msg = fmt.Sprintf("%s:%d", msg, P.Line)
	}
	msg = msg + ": " + P.Msg
	if P.Err != nil {
		msg = msg + ": " + P.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error, if any.
func (P *ParseError) Unwrap() error {
	return P.Err
}

// setFile sets the file name of err, if err is a *ParseError.
func setFile(err error, name string) error {
	if pe, ok := err.(*ParseError); ok {
		pe.File = name
		return pe
	}
	return err
}
