// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret provides a memory-safe buffer for private key material
// and other sensitive bytes.
//
// [Buffer] allocates memory outside the Go heap via mmap(MAP_ANONYMOUS),
// locks it into physical RAM via mlock (preventing swap), and marks it
// excluded from core dumps via madvise(MADV_DONTDUMP). On Close, the
// memory is zeroed, unlocked, and unmapped. Because the memory lives
// outside the Go heap, the garbage collector cannot copy or relocate
// it, so secret material does not persist after release.
//
// Constructors:
//
//   - [New] -- allocates a zero-filled buffer of a given size
//   - [NewFromBytes] -- copies into protected memory, zeros the source
//   - [Read] -- reads an io.Reader into protected memory
//   - [ReadFile] -- reads a file, or stdin for "-"
//
// Access via [Buffer.Bytes] (slice into the mmap region) or
// [Buffer.String] (heap copy for APIs that take strings). After Close,
// any access panics. Close is idempotent.
//
// lib/keyfile reads every private key through [ReadFile], and the CLI
// reads license keys the same way. The read buffer is zeroed as soon as
// its contents move into protected memory, and the issuing key
// survives on the heap only in its parsed crypto form.
//
// Depends on golang.org/x/sys/unix. No keymint-internal dependencies.
package secret
