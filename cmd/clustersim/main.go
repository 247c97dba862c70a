/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
	"github.com/tickwise/clustersim/internal/controller"
	"github.com/tickwise/clustersim/internal/scenario"
	"github.com/tickwise/clustersim/pkg/idgen"
	"github.com/tickwise/clustersim/pkg/monitoring"
)

// defaultScenario runs when no -scenario file is given: a small cluster with
// a rolling workload, a batch job and a cron schedule.
const defaultScenario = `
seed = 42
ticks = 30

[[node]]
name = "node-1"
capacity = 10

[[node]]
name = "node-2"
capacity = 10

[[deployment]]
name = "web"
replicas = 3
image = "nginx:1.25"

[[service]]
name = "web-svc"
selector = { app = "web" }

[[job]]
name = "migrate"
completions = 2
parallelism = 2
image = "migrator:1.0"
completion_ticks = 3

[[cronjob]]
name = "report"
schedule = "every-10-ticks"

[cronjob.job]
name = "report"
image = "reporter:1.0"
completion_ticks = 2
`

func main() {
	var (
		scenarioPath string
		ticks        int64
		metricsAddr  string
		verbosity    int
	)
	flag.StringVar(&scenarioPath, "scenario", "", "Path to a TOML scenario file. Empty runs the built-in demo.")
	flag.Int64Var(&ticks, "ticks", 0, "Number of ticks to advance. Zero uses the scenario's value, or 30.")
	flag.StringVar(&metricsAddr, "metrics-bind-address", "", "Address to serve Prometheus metrics on, e.g. :8080. Empty disables the endpoint.")
	flag.IntVar(&verbosity, "v", 0, "Log verbosity. At 1 every action is logged.")
	flag.Parse()

	log := funcr.New(func(prefix, args string) {
		fmt.Fprintf(os.Stderr, "%s\t%s\n", prefix, args)
	}, funcr.Options{Verbosity: verbosity})

	if err := run(scenarioPath, ticks, metricsAddr, log); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(scenarioPath string, ticks int64, metricsAddr string, log logr.Logger) error {
	var (
		sc  *scenario.Scenario
		err error
	)
	if scenarioPath != "" {
		sc, err = scenario.Load(scenarioPath)
	} else {
		sc, err = scenario.Decode(defaultScenario)
	}
	if err != nil {
		return err
	}

	if ticks == 0 {
		ticks = sc.Ticks
	}
	if ticks == 0 {
		ticks = 30
	}

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(monitoring.Registry, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				log.Error(err, "metrics server stopped")
			}
		}()
		log.Info("serving metrics", "addr", metricsAddr)
	}

	ids := idgen.New(sc.Seed)
	state := sc.Build(ids)
	orch := controller.New(
		controller.WithLogger(log),
		controller.WithIDGenerator(ids),
	)

	for i := int64(0); i < ticks; i++ {
		next, actions, events := orch.Tick(state)
		for _, ev := range events {
			fmt.Printf("[%4d] %-7s %-20s %s/%s: %s\n",
				ev.Tick, ev.Type, ev.Reason, ev.ObjectKind, ev.ObjectName, ev.Message)
		}
		for _, a := range actions {
			log.V(1).Info("action", "tick", state.Tick, "controller", a.Controller, "action", a.Action, "details", a.Details)
		}
		state = next
	}

	printSummary(state)
	return nil
}

func printSummary(state *simv1alpha1.ClusterState) {
	phases := map[string]int{}
	for i := range state.Pods {
		phases[string(state.Pods[i].Status.Phase)]++
	}
	names := make([]string, 0, len(phases))
	for phase := range phases {
		names = append(names, phase)
	}
	sort.Strings(names)

	fmt.Printf("\ntick %d: %d node(s), %d pod(s)", state.Tick, len(state.Nodes), len(state.Pods))
	for _, phase := range names {
		fmt.Printf(" %s=%d", phase, phases[phase])
	}
	fmt.Println()
}
