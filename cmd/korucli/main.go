// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"encoding/json"
	"flag"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/koru3d/vkr/core"
)

var (
	debug  = flag.Bool("vkdbg", false, "Enable the validation layers")
	indent = flag.Bool("i", false, "Indent the output")
)

func main() {
	flag.Parse()

	cfg := core.InstanceConfiguration{
		DebugMode:  *debug,
		Extensions: []string{},
		Layers:     []string{},
	}

	coreInstance, err := core.NewInstance(nil, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer coreInstance.Release()

	enc := json.NewEncoder(os.Stdout)
	if *indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(coreInstance.PhysicalDevicesInfo()); err != nil {
		log.Fatal(err)
	}
}
