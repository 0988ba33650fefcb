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

// Package yufs implements the in-memory namespace engine of a small,
// POSIX-shaped filesystem: an inode table, a dentry tree, content buffers
// for regular files, a stateful directory iterator, and the hardlink
// lifecycle that ties them together.
//
// The package is deliberately single-threaded (see Core's doc comment) and
// knows nothing about FUSE, the kernel VFS, or any wire protocol. Host
// adapters that want to expose a Core over FUSE or over the network live in
// sibling packages (yufsfuse, remote) and are responsible for marshalling
// user buffers, synchronizing calls, and translating Core's error values
// into whatever their transport expects.
package yufs
