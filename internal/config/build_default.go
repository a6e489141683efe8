//go:build !production

package config

// ProductionBuild reports whether the binary was built with -tags production.
const ProductionBuild = false
