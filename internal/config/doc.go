// Package config provides configuration structures and utilities for trialtab.
// It defines the command options for parsing and analysis, and the timeline
// layout that tells the parser how an experiment export is structured.
package config
