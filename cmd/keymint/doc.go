// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Keymint issues and verifies software license keys.
//
//	keymint create       issue a key from flags or a request file
//	keymint verify       check a key; exit status 1 when rejected
//	keymint inspect      show the untrusted contents of a key
//	keymint fingerprint  identify key files
//	keymint schemes      list schemes and the key half each needs
//	keymint version      print build information
//
// Diagnostics go to stderr as text on a terminal and JSON otherwise.
// KEYMINT_LOG_LEVEL (debug, info, warn, error) sets the threshold;
// the default is error.
package main
