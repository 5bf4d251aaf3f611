package cback

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Goldenbeak21/modular-code-generation/internal/codegen"
)

// GenerateMakefile renders a Network directory's Makefile (spec §4.6.1:
// "per-target compile rules, an archive step for sub-networks ... and a
// clean target that recurses"). Per spec §9's disposition between the two
// divergent MakefileGenerator variants found in the source, this always
// uses the hierarchical-archive (one .a per nested Network) shape: a root
// Network links its own objects against every nested Network's archive,
// and a nested Network's own Makefile instead builds its archive and
// recurses no further than its own children.
func GenerateMakefile(netName string, subNetworks []string, isRoot bool) string {
	subs := append([]string(nil), subNetworks...)
	sort.Strings(subs)
	subDirs := make([]string, len(subs))
	for i, s := range subs {
		subDirs[i] = codegen.FileName(s)
	}

	var b strings.Builder
	b.WriteString("CC = gcc\n")
	if isRoot {
		b.WriteString("CFLAGS = -O2 -Wall -lm\n\n")
	} else {
		b.WriteString("CFLAGS = -O2 -Wall\n\n")
	}
	b.WriteString("SOURCES = $(wildcard *.c) $(wildcard */*.c)\n")
	b.WriteString("OBJECTS = $(SOURCES:.c=.o)\n\n")

	var archives []string
	for _, d := range subDirs {
		archives = append(archives, fmt.Sprintf("%s/lib%s.a", d, d))
	}

	if isRoot {
		fmt.Fprintf(&b, "runnable: $(OBJECTS)%s\n", prefixedJoin(archives))
		b.WriteString("\t$(CC) $(CFLAGS) -o $@ $(OBJECTS)" + prefixedJoin(archives) + "\n\n")
	} else {
		target := fmt.Sprintf("lib%s.a", codegen.FileName(netName))
		fmt.Fprintf(&b, "%s: $(OBJECTS)\n", target)
		b.WriteString("\tar rcs $@ $(OBJECTS)\n\n")
	}

	for _, d := range subDirs {
		fmt.Fprintf(&b, "%s/lib%s.a:\n\t$(MAKE) -C %s\n\n", d, d, d)
	}

	b.WriteString("%.o: %.c\n\t$(CC) $(CFLAGS) -c -o $@ $<\n\n")

	b.WriteString("clean:\n\trm -f $(OBJECTS)")
	if isRoot {
		b.WriteString(" runnable")
	} else {
		fmt.Fprintf(&b, " lib%s.a", codegen.FileName(netName))
	}
	b.WriteString("\n")
	for _, d := range subDirs {
		fmt.Fprintf(&b, "\t$(MAKE) -C %s clean\n", d)
	}
	b.WriteString("\n.PHONY: clean\n")
	return b.String()
}

func prefixedJoin(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return " " + strings.Join(items, " ")
}
