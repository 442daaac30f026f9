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

var deviceNProfiles string

var matchCmd = &cobra.Command{
	Use:   "match colorant...",
	Short: "Find a DeviceN profile for a list of colorant names",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().StringVarP(&deviceNProfiles, "profiles", "p", "", "comma separated list of DeviceN profiles")
	matchCmd.MarkFlagRequired("profiles")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	m := newManager()
	defer m.Close()

	if err := m.SetParam(iccmgr.ParamDeviceN, deviceNProfiles); err != nil {
		return err
	}

	b, perm, ok := m.FindDeviceN(args)
	if !ok {
		return fmt.Errorf("no DeviceN profile matches %q", args)
	}
	defer b.Release()
	fmt.Printf("profile: %s\n", b.Name())
	for i, name := range args {
		fmt.Printf("  %-20s -> channel %d\n", name, perm[i])
	}
	return nil
}
