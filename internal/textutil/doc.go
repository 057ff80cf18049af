// Package textutil provides text ordering and normalization helpers.
//
// Natural ordering compares strings the way a person reads them: embedded
// digit runs compare numerically, everything else case-insensitively, so
// "page2.jpg" sorts before "page10.jpg". Title normalization reduces a
// series title to lowercase alphanumerics for provider result matching.
package textutil
