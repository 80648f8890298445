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

// Package logging configures the process-wide structured logger.
package logging

import (
	"github.com/go-logr/logr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	ctrl "sigs.k8s.io/controller-runtime"
	ctrlzap "sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// Setup builds a zap-backed logr.Logger, installs it as the
// controller-runtime logger and returns it. Development mode switches to
// console encoding with debug-level output.
func Setup(development bool) logr.Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if development {
		level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger := ctrlzap.New(
		ctrlzap.UseDevMode(development),
		ctrlzap.Level(&level),
	)
	ctrl.SetLogger(logger)
	return logger
}

// NewTestLogger installs a development-mode logger for test suites so log
// output from code under test is captured by the test runner.
func NewTestLogger() logr.Logger {
	logger := ctrlzap.New(ctrlzap.UseDevMode(true))
	ctrl.SetLogger(logger)
	return logger
}
