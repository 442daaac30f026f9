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

	"github.com/spf13/cobra"

	"seehuhn.de/go/iccmgr"
)

var hashCmd = &cobra.Command{
	Use:   "hash name...",
	Short: "Resolve profiles through the search path and print their hashes",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHash,
}

func init() {
	rootCmd.AddCommand(hashCmd)
}

func runHash(cmd *cobra.Command, args []string) error {
	m := newManager()
	defer m.Close()

	if err := m.InitDefaults(); err != nil {
		return err
	}

	for _, name := range args {
		b, err := m.OpenProfile(name)
		if err != nil {
			return err
		}
		m.MatchDefault(b)
		in, out := b.Channels()
		fmt.Printf("%016x  %-6s %d->%d  %-13s %-13s %s\n",
			b.Hash(), b.DataSpace(), in, out, b.Role(), iccmgr.DefaultFamily(b), name)
		b.Release()
	}
	return nil
}
