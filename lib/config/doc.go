// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads license request files.
//
// A request names everything needed to issue or check one license:
// scheme, product, owner, expiry, version range, and the path of the
// key file to use. It is read from a single explicit path; there is no
// discovery and no environment override of field values.
//
// YAML (.yaml, .yml) is decoded with gopkg.in/yaml.v3. JSON (.json,
// .jsonc) may carry comments and trailing commas, which are stripped
// with github.com/tidwall/jsonc before decoding. Unknown fields are an
// error in both.
//
//	scheme: octet
//	product: WidgetPro
//	owner: Acme
//	expires: 90d
//	min_version: 2.0.0
//	max_version: {version: 4.0.0, inclusive: false}
//	key: ${KEYMINT_KEYS:-~/.keymint}/issuer.pem
//
// The key path expands ${VAR} and ${VAR:-default} from the
// environment, a leading "~/" to the home directory, and is resolved
// relative to the request file's directory.
package config
