// Copyright 2024 Nokia
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command yangdbctl is a get/put driver over a Facade, the direct
// descendant of the "#if 1 /* Test program */" command-line harness at the
// bottom of original_source/lib/src/clicon_xml_db.c, reimplemented with
// pflag subcommands instead of hand-rolled argv parsing.
package main

import (
	"fmt"
	"os"

	"github.com/beevik/etree"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/sdcio-labs/yangdb/internal/config"
	"github.com/sdcio-labs/yangdb/internal/datastore"
	"github.com/sdcio-labs/yangdb/internal/kv"
	"github.com/sdcio-labs/yangdb/internal/mutate"
	"github.com/sdcio-labs/yangdb/internal/yangspec"
)

var configFile string
var debug bool
var datastoreName string

func main() {
	pflag.StringVarP(&configFile, "config", "c", "", "config file path")
	pflag.BoolVarP(&debug, "debug", "d", false, "set log level to debug")
	pflag.StringVarP(&datastoreName, "datastore", "s", "running", "named datastore to operate on")
	pflag.Parse()

	if debug {
		log.SetLevel(log.DebugLevel)
	}

	args := pflag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.New(configFile)
	if err != nil {
		log.WithError(err).Fatal("failed to read config")
	}

	store, err := kv.NewBoltKV(cfg.KV.Path)
	if err != nil {
		log.WithError(err).Fatal("failed to open kv store")
	}
	defer store.Close()

	spec, err := yangspec.Load(cfg.Schema.Files, cfg.Schema.Directories)
	if err != nil {
		log.WithError(err).Fatal("failed to load yang schema")
	}

	for _, ds := range cfg.Datastores {
		if err := store.Init(ds.Name); err != nil {
			log.WithError(err).Fatalf("failed to initialize datastore %q", ds.Name)
		}
	}

	f := datastore.New(store, spec)

	var cmdErr error
	switch args[0] {
	case "get":
		cmdErr = runGet(f, args[1:])
	case "put":
		cmdErr = runPut(f, args[1:])
	case "put-key":
		cmdErr = runPutKey(f, args[1:])
	default:
		usage()
		os.Exit(2)
	}
	if cmdErr != nil {
		log.WithError(cmdErr).Fatal("command failed")
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `usage: yangdbctl [flags] <command> [args]

commands:
  get [xpath]               read the datastore, optionally pruned by xpath
  put-key <key> <val> <op>  write a single key/value pair (op: merge|replace|create|delete|remove)
`)
	pflag.PrintDefaults()
}

func runGet(f *datastore.Facade, args []string) error {
	var xpathExpr string
	if len(args) > 0 {
		xpathExpr = args[0]
	}
	doc, err := f.Get(datastoreName, xpathExpr)
	if err != nil {
		return err
	}
	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runPutKey(f *datastore.Facade, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("put-key requires <key> <val> <op>")
	}
	op, err := mutate.ParseOperation(args[2])
	if err != nil {
		return err
	}
	return f.PutKey(datastoreName, args[0], args[1], op)
}

func runPut(f *datastore.Facade, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("put requires <xml-file> <op>")
	}
	op, err := mutate.ParseOperation(args[1])
	if err != nil {
		return err
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(b); err != nil {
		return err
	}
	return f.Put(datastoreName, &doc.Element, op)
}
