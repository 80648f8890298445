/*
Copyright 2025 The Critical-RT Authors

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

// rtscalectl applies one desired replica count to one RTResource: the
// by-hand equivalent of a single decision-loop tick. Useful for operations
// and for exercising the adapter against a live cluster.
package main

import (
	"os"

	flag "github.com/spf13/pflag"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/critical-rt/rtresource-scaler/internal/logging"
	"github.com/critical-rt/rtresource-scaler/pkg/client"
	"github.com/critical-rt/rtresource-scaler/pkg/config"
	"github.com/critical-rt/rtresource-scaler/pkg/scaler"
)

func main() {
	var (
		name        string
		namespace   string
		replicas    int32
		configPath  string
		development bool
	)
	flag.StringVar(&name, "name", "", "workload name of the target RTResource (required)")
	flag.StringVar(&namespace, "namespace", "default", "namespace of the target RTResource")
	flag.Int32Var(&replicas, "replicas", 0, "desired replica count (must be >= 0)")
	flag.StringVar(&configPath, "config", "", "path to the adapter config file")
	flag.BoolVar(&development, "dev", false, "enable development-mode logging")
	flag.Parse()

	logger := logging.Setup(development).WithName("rtscalectl")

	if name == "" {
		logger.Error(nil, "--name is required")
		os.Exit(2)
	}
	if replicas < 0 {
		logger.Error(nil, "--replicas must be >= 0", "replicas", replicas)
		os.Exit(2)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error(err, "failed to load configuration")
		os.Exit(1)
	}

	restConfig := ctrl.GetConfigOrDie()
	cfg.ApplyTo(restConfig)

	rtClient, err := client.NewForConfig(restConfig)
	if err != nil {
		logger.Error(err, "failed to create RTResource client")
		os.Exit(1)
	}

	ctx := ctrl.SetupSignalHandler()

	profiles, err := cfg.LoadProfiles()
	if err != nil {
		logger.Error(err, "failed to load resource profiles")
		os.Exit(1)
	}
	if ref, ok := cfg.ProfilesConfigMapRef(); ok {
		clientset, err := kubernetes.NewForConfig(restConfig)
		if err != nil {
			logger.Error(err, "failed to create kubernetes client")
			os.Exit(1)
		}
		cm, err := clientset.CoreV1().ConfigMaps(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
		if err != nil {
			logger.Error(err, "failed to read profiles ConfigMap", "configMap", ref.String())
			os.Exit(1)
		}
		profiles = config.ProfilesFromConfigMap(cm)
	}

	s := scaler.NewScaler(rtClient, scaler.WithProfiles(profiles))

	target := scaler.Target{Name: name, Namespace: namespace}
	// The adapter swallows remote failures for its decision-loop caller;
	// a one-shot CLI wants them fatal instead.
	if _, err := s.Scale(ctx, target, replicas); err != nil {
		os.Exit(1)
	}

	logger.Info("desired scale applied",
		"name", target.Name,
		"namespace", target.Namespace,
		"replicas", replicas)
}
