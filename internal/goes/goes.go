// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package goes dispatches the arguments of a multi-command program to the
// command named by the first.
package goes

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/platinasystems/flags"

	"github.com/platinasystems/swreg/internal/lang"
)

const InstallName = "/usr/bin/swreg"

var (
	// Output of the -usage, -apropos, -man and help text.
	Output io.Writer = os.Stdout
)

type ByName map[string]*Goes

type Goes struct {
	Name    string
	Main    func(...string) error
	Usage   string
	Apropos lang.Alt
	Man     lang.Alt
}

type aproposer interface {
	Apropos() lang.Alt
}

type mainer interface {
	Main(...string) error
}

type manner interface {
	Man() lang.Alt
}

type usager interface {
	Usage() string
}

// Main runs the args[0] command. When run w/o args this uses os.Args.
//
// If the args have "-h", "-help", "--help", or "-usage", this prints the
// command's usage instead; similarly for "-apropos" and "-man". The "help"
// command, unless plotted, lists every command.
func (byName ByName) Main(args ...string) error {
	if len(args) == 0 {
		args = os.Args
		if len(args) == 0 {
			return nil
		}
	}
	if _, found := byName[args[0]]; !found {
		if filepath.Base(args[0]) == ProgBase() || args[0] == InstallName {
			args = args[1:]
		}
	}
	if len(args) == 0 {
		args = []string{"help"}
	}
	name := args[0]
	args = args[1:]
	flag, args := flags.New(args,
		[]string{"-h", "-help", "--help", "-usage", "--usage"},
		[]string{"-apropos", "--apropos"},
		[]string{"-man", "--man"})
	g := byName[name]
	if g == nil {
		if name == "help" {
			_, err := fmt.Fprint(Output, byName.Help())
			return err
		}
		return fmt.Errorf("%s: command not found", name)
	}
	switch {
	case flag.ByName["-h"]:
		_, err := fmt.Fprintln(Output, "usage:", g.Usage)
		return err
	case flag.ByName["-apropos"]:
		_, err := fmt.Fprintln(Output, g.Apropos)
		return err
	case flag.ByName["-man"]:
		_, err := fmt.Fprint(Output, strings.TrimPrefix(g.Man.String(),
			"\n"), "\n")
		return err
	}
	err := g.Main(args...)
	if err == io.EOF {
		err = nil
	}
	if err != nil {
		err = fmt.Errorf("%s: %w", name, err)
	}
	return err
}

// Help lists each command and its apropos.
func (byName ByName) Help() string {
	names := make([]string, 0, len(byName))
	width := 0
	for name := range byName {
		names = append(names, name)
		if len(name) > width {
			width = len(name)
		}
	}
	sort.Strings(names)
	buf := new(strings.Builder)
	for _, name := range names {
		fmt.Fprintf(buf, "%-*s  %s\n", width, name, byName[name].Apropos)
	}
	return buf.String()
}

// Plot commands on map.
func (byName ByName) Plot(cmds ...interface{}) {
	for _, v := range cmds {
		g, ok := v.(*Goes)
		if ok {
			byName[g.Name] = g
			continue
		}
		g = new(Goes)
		if method, found := v.(fmt.Stringer); found {
			g.Name = method.String()
		} else {
			panic(fmt.Errorf("%T: doesn't have String method", v))
		}
		if _, found := byName[g.Name]; found {
			panic(fmt.Errorf("%s: duplicate", g.Name))
		}
		if method, found := v.(mainer); found {
			g.Main = method.Main
		} else {
			panic(fmt.Errorf("%s: doesn't have Main method",
				g.Name))
		}
		if method, found := v.(usager); found {
			g.Usage = method.Usage()
		}
		if method, found := v.(aproposer); found {
			g.Apropos = method.Apropos()
		}
		if method, found := v.(manner); found {
			g.Man = method.Man()
		}
		byName[g.Name] = g
	}
}

var progbase string

// ProgBase is the file name of the running executable.
func ProgBase() string {
	if len(progbase) == 0 {
		prog, err := os.Executable()
		if err != nil {
			prog = InstallName
		}
		progbase = filepath.Base(prog)
	}
	return progbase
}
