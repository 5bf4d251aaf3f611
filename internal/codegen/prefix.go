package codegen

// PrefixData carries the scope a Formula is being lowered into: a prefix
// prepended to every variable reference not otherwise overridden, plus a
// name-to-substitute map for references that need a different rewrite
// (spec §4.6: "a PrefixData context that carries a scope prefix plus a
// name→substitute map ... used to rewrite references like v to
// inst_data->v or to a hardware signal").
type PrefixData struct {
	Prefix string
	Rename map[string]string
}

// Resolve renders a single (possibly dot-qualified) Variable name under this
// PrefixData: an exact Rename entry wins outright, otherwise the Prefix is
// prepended verbatim.
func (pd PrefixData) Resolve(name string) string {
	if pd.Rename != nil {
		if sub, ok := pd.Rename[name]; ok {
			return sub
		}
	}
	return pd.Prefix + name
}
