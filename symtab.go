package main

//
// The variable bank.  There are exactly 26 integer variables, A
// through Z, and they always exist, so there is no declaration and
// no lookup failure.  Lower case letters name the same slots
//

func isLetter(ch byte) bool {

	ch |= 0x20

	return ch >= 'a' && ch <= 'z'
}

func varIndex(ch byte) int {

	basicAssert(isLetter(ch), "bad variable name")

	return int((ch | 0x20) - 'a')
}

func varName(idx int) string {

	return string(rune('A' + idx))
}

func (vb *varBank) get(ch byte) int32 {

	return vb[varIndex(ch)]
}

func (vb *varBank) set(ch byte, value int32) {

	vb[varIndex(ch)] = value
}

//
// Stores go through here so that TRACE VARS sees every assignment
//

func (ip *interp) storeVar(ch byte, value int32) {

	ip.vars.set(ch, value)

	if ip.traceVars {
		ip.log.Info().
			Str("var", varName(varIndex(ch))).
			Int32("value", value).
			Int("line", ip.state.LastLine).
			Bool("running", ip.state.Running).
			Msg("assign")
	}
}

func (ip *interp) lookupVar(ch byte) int32 {

	return ip.vars.get(ch)
}

//
// Nonzero variables only, keyed by name.  Used for state dumps
//

func (vb *varBank) snapshot() map[string]int32 {

	m := make(map[string]int32)

	for i, v := range vb {
		if v != 0 {
			m[varName(i)] = v
		}
	}

	return m
}
