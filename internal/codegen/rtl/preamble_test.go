package rtl

import (
	"strings"
	"testing"
)

func TestGenerateFixedPointPackageDeclaresSupportFunctions(t *testing.T) {
	src := GenerateFixedPointPackage()
	for _, want := range []string{
		"package " + fixedPointPackageName,
		"function fixed_mul",
		"function fixed_div",
		"function fixed_sqrt",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("fixed-point package missing %q", want)
		}
	}
}
