// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Command xfdump is the reference driver for the xfile package: it
// deserializes a single FastFile and prints the decoded asset list. A
// cobra root carries a dump subcommand and a version subcommand, with
// a JSON pretty-printer and a --yaml alternate format.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	xfile "github.com/xfiledeserializer/xfile"
)

const version = "0.1.0"

var (
	platformFlag   string
	yamlFlag       bool
	noCacheFlag    bool
	allowUnusedFlag bool
)

func platformFromFlag(s string) (xfile.Platform, error) {
	switch s {
	case "windows", "":
		return xfile.PlatformWindows, nil
	case "macos":
		return xfile.PlatformMacOS, nil
	case "xbox360":
		return xfile.PlatformXbox360, nil
	case "ps3":
		return xfile.PlatformPS3, nil
	case "wii":
		return xfile.PlatformWii, nil
	default:
		return 0, fmt.Errorf("unknown platform %q", s)
	}
}

func prettyJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, b, "", "\t"); err != nil {
		return string(b), nil
	}
	return buf.String(), nil
}

func dump(cmd *cobra.Command, args []string) error {
	path := "cuba.ff"
	if len(args) > 0 {
		path = args[0]
	}

	platform, err := platformFromFlag(platformFlag)
	if err != nil {
		return err
	}

	d, err := xfile.New(path, &xfile.Options{
		Platform:               platform,
		DisableCache:           noCacheFlag,
		AllowUnusedXAssetTypes: allowUnusedFlag,
	})
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer d.Close()

	result, err := d.Deserialize()
	if err != nil {
		return fmt.Errorf("deserialize %s: %w", path, err)
	}

	if yamlFlag {
		b, err := json.Marshal(result)
		if err != nil {
			return err
		}
		y, err := yaml.JSONToYAML(b)
		if err != nil {
			return err
		}
		fmt.Println(string(y))
		return nil
	}

	out, err := prettyJSON(result)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func main() {
	var rootCmd = &cobra.Command{
		Use:   "xfdump",
		Short: "xfdump dumps the asset list of a T5 FastFile",
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print xfdump's version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	var dumpCmd = &cobra.Command{
		Use:   "dump [file]",
		Short: "Deserialize a FastFile and print its assets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  dump,
	}
	dumpCmd.Flags().StringVar(&platformFlag, "platform", "windows",
		"target platform: windows, macos, xbox360, ps3, wii")
	dumpCmd.Flags().BoolVar(&yamlFlag, "yaml", false, "print YAML instead of JSON")
	dumpCmd.Flags().BoolVar(&noCacheFlag, "no-cache", false, "disable the .cache sidecar")
	dumpCmd.Flags().BoolVar(&allowUnusedFlag, "allow-unused-types", false,
		"treat UnusedXAssetType as a non-fatal anomaly")

	rootCmd.AddCommand(versionCmd, dumpCmd)

	if err := rootCmd.Execute(); err != nil {
		log.SetFlags(0)
		log.Fatal(err)
	}
}
