package main

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thediveo/enumflag/v2"

	"github.com/leodido/featcheck/manifest"
)

// featureList is a comma-separated, repeatable list of feature identifiers.
type featureList []string

func (l *featureList) String() string {
	return strings.Join(*l, ",")
}

func (l *featureList) Set(input string) error {
	for _, id := range parseFeatureList(input) {
		if !slices.Contains(*l, id) {
			*l = append(*l, id)
		}
	}
	return nil
}

func (l *featureList) Type() string {
	return "features"
}

func parseFeatureList(input string) featureList {
	parts := strings.Split(input, ",")
	ids := make(featureList, 0, len(parts))
	for _, part := range parts {
		id := strings.TrimSpace(part)
		if id == "" || slices.Contains(ids, id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func defineFeatureList(descr string, fieldValue reflect.Value) (pflag.Value, string) {
	fieldPtr := fieldValue.Addr().Interface().(*featureList)
	*fieldPtr = nil
	return fieldPtr, descr
}

func decodeFeatureList(input any) (any, error) {
	s, ok := input.(string)
	if !ok {
		return input, nil
	}
	return parseFeatureList(s), nil
}

// outputFormat selects how results are printed.
type outputFormat enumflag.Flag

const (
	formatText outputFormat = iota
	formatJSON
)

var outputFormatIds = map[outputFormat][]string{
	formatText: {"text"},
	formatJSON: {"json"},
}

func defineOutputFormat(descr string, fieldValue reflect.Value) (pflag.Value, string) {
	fieldPtr := fieldValue.Addr().Interface().(*outputFormat)
	return enumflag.New(fieldPtr, "format", outputFormatIds, enumflag.EnumCaseInsensitive), descr
}

func decodeOutputFormat(input any) (any, error) {
	s, ok := input.(string)
	if !ok {
		return input, nil
	}

	var format outputFormat
	if err := enumflag.New(&format, "format", outputFormatIds, enumflag.EnumCaseInsensitive).Set(s); err != nil {
		return nil, fmt.Errorf("unknown output format: %q (available: text, json)", s)
	}
	return format, nil
}

// unknownFeatures returns the ids in want that the manifest does not declare.
// Target platform identifiers are accepted when allowOS is set.
func unknownFeatures(m *manifest.Manifest, want []string, allowOS bool) []string {
	names := m.Names()
	var unknown []string
	for _, id := range want {
		if slices.Contains(names, id) {
			continue
		}
		if allowOS && strings.HasPrefix(id, manifest.TargetOSPrefix) {
			continue
		}
		unknown = append(unknown, id)
	}
	return unknown
}

func checkKnownFeatures(m *manifest.Manifest, flag string, want []string, allowOS bool) error {
	unknown := unknownFeatures(m, want, allowOS)
	if len(unknown) == 0 {
		return nil
	}
	return fmt.Errorf("--%s: unknown feature: %q (available: %s)", flag, unknown[0], strings.Join(m.Names(), ", "))
}

// completeFeatureList suggests feature names for a comma-separated flag
// value. Matching is case-insensitive and already listed names are skipped.
func completeFeatureList(names []string, toComplete string) []string {
	prefix := ""
	current := toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
		current = toComplete[i+1:]
	}

	selected := parseFeatureList(prefix)
	var candidates []string
	for _, name := range names {
		if !strings.HasPrefix(strings.ToLower(name), strings.ToLower(current)) {
			continue
		}
		if slices.ContainsFunc(selected, func(s string) bool { return strings.EqualFold(s, name) }) {
			continue
		}
		candidates = append(candidates, prefix+name)
	}
	return candidates
}

// featureCompletion completes feature names from the manifest named by --file.
func featureCompletion(c *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	directive := cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace

	path, err := c.Flags().GetString("file")
	if err != nil || path == "" {
		return nil, directive
	}
	m, err := manifest.Load(path)
	if err != nil {
		return nil, directive
	}
	return completeFeatureList(m.Names(), toComplete), directive
}

func registerFeatureCompletion(c *cobra.Command, flags ...string) {
	for _, name := range flags {
		if err := c.RegisterFlagCompletionFunc(name, featureCompletion); err != nil {
			panic(err)
		}
	}
}
