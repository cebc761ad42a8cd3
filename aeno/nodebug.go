//go:build !debug
// +build !debug

package aeno

func debugAssertHit(*Hit) {}
