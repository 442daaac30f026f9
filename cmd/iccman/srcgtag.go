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

var srcgtagCmd = &cobra.Command{
	Use:   "srcgtag file",
	Short: "Show the source profiles configured by a source tag file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSrcgtag,
}

func init() {
	rootCmd.AddCommand(srcgtagCmd)
}

func runSrcgtag(cmd *cobra.Command, args []string) error {
	m := newManager()
	defer m.Close()

	if err := m.SetSourceTags(args[0]); err != nil {
		return err
	}

	if ct := m.SourceTags().ColorTune(); ct != nil {
		fmt.Printf("ColorTune  %016x  %s\n", ct.Hash(), ct.Name())
	}
	for _, space := range []iccmgr.DataSpace{iccmgr.RGB, iccmgr.CMYK} {
		for _, obj := range []iccmgr.ObjectClass{iccmgr.ObjectPath, iccmgr.ObjectImage, iccmgr.ObjectText} {
			bind := m.SourceProfile(space, obj)
			if bind.Profile == nil {
				continue
			}
			fmt.Printf("%-4s %-5s %016x  %-21s %s\n",
				space, obj, bind.Profile.Hash(), bind.Intent, bind.Profile.Name())
		}
	}
	return nil
}
