// seehuhn.de/go/iccmgr - manage ICC colour profiles for an imaging pipeline
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"seehuhn.de/go/iccmgr/clist"
)

var clistCmd = &cobra.Command{
	Use:   "clist",
	Short: "Write and inspect serialized profile lists",
}

var clistWriteCmd = &cobra.Command{
	Use:   "write output name...",
	Short: "Serialize profiles into a profile list",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runClistWrite,
}

var clistListCmd = &cobra.Command{
	Use:   "list file",
	Short: "Show the contents of a profile list",
	Args:  cobra.ExactArgs(1),
	RunE:  runClistList,
}

func init() {
	clistCmd.AddCommand(clistWriteCmd, clistListCmd)
	rootCmd.AddCommand(clistCmd)
}

func runClistWrite(cmd *cobra.Command, args []string) error {
	m := newManager()
	defer m.Close()

	out, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer out.Close()

	w := clist.NewWriter(out)
	for _, name := range args[1:] {
		b, err := m.OpenProfile(name)
		if err != nil {
			return err
		}
		e, err := w.AddProfile(b)
		b.Release()
		if err != nil {
			return err
		}
		fmt.Printf("%016x  offset %-8d %6d bytes  %s\n", e.Hash, e.Offset, e.Size, name)
	}
	if err := w.Close(); err != nil {
		return err
	}
	return out.Close()
}

func runClistList(cmd *cobra.Command, args []string) error {
	fd, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer fd.Close()
	fi, err := fd.Stat()
	if err != nil {
		return err
	}

	r, err := clist.NewReader(clist.NewStore(fd, fi.Size()), &clist.ReaderOptions{
		Logger: logger(),
	})
	if err != nil {
		return err
	}
	defer r.Close()

	tab, err := r.Table()
	if err != nil {
		return err
	}
	for _, e := range tab {
		b, err := r.ReadSerial(e.Hash)
		if err != nil {
			return err
		}
		in, out := b.Channels()
		fmt.Printf("%016x  offset %-8d %6d bytes  %-6s %d->%d  %s\n",
			e.Hash, e.Offset, e.Size, b.DataSpace(), in, out, b.Role())
		b.Release()
	}
	return nil
}
