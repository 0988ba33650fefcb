// Copyright 2024 The YUFS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

// config is the typed view of yufsd's settings, populated directly from
// the command-line flags, mirroring gcsfuse's cmd/root.go split between
// cobra's flag parsing and a plain config struct. The flags are also bound
// into viper, but no config file is read.
type config struct {
	MountPoint  string
	Foreground  bool
	DebugFuse   bool
	LogFile     string
	LogFormat   string
	MetricsAddr string
}

func defaultConfig() config {
	return config{
		Foreground:  false,
		DebugFuse:   false,
		LogFormat:   "json",
		MetricsAddr: ":9100",
	}
}
