// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package render

import "regexp"

var keyPattern = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// AnchorID derives the cross-reference id of a feature key. Every character
// outside [a-zA-Z0-9_] becomes one underscore.
func AnchorID(key string) string {
	return keyPattern.ReplaceAllString(key, "_")
}

// ImplementationAnchorID is the id of one driver's entry for one feature.
func ImplementationAnchorID(featureKey, driverKey string) string {
	return AnchorID(featureKey + "_" + driverKey)
}
