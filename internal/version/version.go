// ABOUTME: Version constants for the soundpool demo
// ABOUTME: Identifies the product in logs and diagnostics
package version

const (
	// Product is the user-facing application name
	Product = "Soundpool Demo"

	// Manufacturer identifies the project
	Manufacturer = "Soundpool"

	// Version is the release version
	Version = "0.1.0"
)
