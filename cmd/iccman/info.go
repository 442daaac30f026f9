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
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"

	"seehuhn.de/go/iccmgr/cms"
)

var infoCmd = &cobra.Command{
	Use:   "info file...",
	Short: "Show the header and tags of ICC profiles",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, fname := range args {
			err := show(fname)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", fname, err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func show(fname string) error {
	body, err := os.ReadFile(fname)
	if err != nil {
		return err
	}
	p, err := cms.Decode(body)
	if err != nil {
		return err
	}
	if !verbose {
		fmt.Printf("%-8s %-22s %-7s %6d bytes  %s\n",
			p.Version, p.Class, p.ColorSpace, len(body), fname)
		return nil
	}

	fmt.Printf("Profile: %s\n", fname)
	if desc := p.Description(); desc != "" {
		fmt.Printf("  Description: %s\n", desc)
	}
	if p.PreferredCMMType != 0 {
		fmt.Printf("  PreferredCMMType: %s\n", tag(p.PreferredCMMType))
	}
	fmt.Printf("  Version: %s\n", p.Version)
	fmt.Printf("  Class: %s\n", p.Class)
	fmt.Printf("  ColorSpace: %s (%d components)\n", p.ColorSpace, p.ColorSpace.NumComponents())
	fmt.Printf("  PCS: %s\n", p.PCS)
	if !p.CreationDate.IsZero() {
		fmt.Printf("  CreationDate: %s\n", p.CreationDate)
	}
	if p.Size != uint32(len(body)) {
		fmt.Printf("  DeclaredSize: %d\n", p.Size)
	}
	if p.Flags != 0 {
		fmt.Printf("  Flags: %08X\n", p.Flags)
	}
	if p.DeviceManufacturer != 0 {
		fmt.Printf("  DeviceManufacturer: %s\n", tag(p.DeviceManufacturer))
	}
	if p.DeviceModel != 0 {
		fmt.Printf("  DeviceModel: %s\n", tag(p.DeviceModel))
	}
	fmt.Printf("  RenderingIntent: %s\n", p.RenderingIntent)
	if p.Creator != 0 {
		fmt.Printf("  Creator: %s\n", tag(p.Creator))
	}
	if p.CheckSum != cms.CheckSumMissing {
		fmt.Printf("  CheckSum: %s\n", p.CheckSum)
	}

	fmt.Println()

	tags := maps.Keys(p.TagData)
	slices.Sort(tags)
	for _, t := range tags {
		data := p.TagData[t]
		switch t {
		case cms.Copyright:
			fmt.Printf("  %s: (%d bytes)\n", t, len(data))
			cprt, err := p.Copyright()
			if err != nil {
				return err
			}
			for _, lu := range cprt {
				fmt.Printf("    [%s_%s] %s\n", lu.Language, lu.Country, lu.Value)
			}
		case cms.ColorantTable:
			names, err := p.Colorants()
			if err != nil {
				return err
			}
			fmt.Printf("  %s: %q\n", t, names)
		default:
			if len(data) < 4 {
				fmt.Printf("  %s: (%d bytes)\n", t, len(data))
				continue
			}
			sig := uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
			fmt.Printf("  %s: %s (%d bytes)\n", t, tag(sig), len(data))
		}
	}

	fmt.Println()

	return nil
}

func tag(x uint32) string {
	a := fmt.Sprintf("%08X", x)

	bb := []byte{byte(x >> 24), byte(x >> 16), byte(x >> 8), byte(x)}
	for _, c := range bb {
		if c < 0x20 || c > 0x7E {
			return a
		}
	}
	return a + fmt.Sprintf(" %q", bb)
}
