package useragent

import (
	"strconv"
	"strings"
)

// Reconstructed holds the composite values derived from a Match.
type Reconstructed struct {
	Version   Field
	OSVersion Field
	OSFull    Field
}

// Reconstruct derives the composite version strings of m.
// source is the text m was produced from; it is only used to recover a
// build number the matcher did not capture.
func Reconstruct(m Match, source string) Reconstructed {
	var r Reconstructed
	if v, ok := Version(m.UserAgent, source); ok {
		r.Version = Some(v)
	}
	if v, ok := OSVersion(m.OS); ok {
		r.OSVersion = Some(v)
	}
	if v, ok := OSFull(m.OS); ok {
		r.OSFull = Some(v)
	}
	return r
}

// Version joins the browser version segments with dots, stopping at the
// first absent one. When major, minor and patch are present but patch-minor
// is not, a purely numeric build number that directly follows the joined
// version in source is appended:
//
//	Version(Agent{Major: "26", Minor: "0", Patch: "1410"}, "Chrome/26.0.1410.63 Safari") // "26.0.1410.63"
func Version(a Agent, source string) (string, bool) {
	major, ok := a.Major.Get()
	if !ok {
		return "", false
	}

	var b strings.Builder
	b.WriteString(major)

	minor, ok := a.Minor.Get()
	if !ok {
		return b.String(), true
	}
	b.WriteByte('.')
	b.WriteString(minor)

	patch, ok := a.Patch.Get()
	if !ok {
		return b.String(), true
	}
	b.WriteByte('.')
	b.WriteString(patch)

	if pm, ok := a.PatchMinor.Get(); ok {
		b.WriteByte('.')
		b.WriteString(pm)
		return b.String(), true
	}

	if build, ok := recoverBuild(source, b.String()); ok {
		b.WriteByte('.')
		b.WriteString(build)
	}
	return b.String(), true
}

// recoverBuild looks up the first occurrence of version in source and returns
// the digits between the dot that follows it and the next space.
func recoverBuild(source, version string) (string, bool) {
	i := strings.Index(source, version)
	if i < 0 {
		return "", false
	}
	rest := source[i+len(version):]
	if !strings.HasPrefix(rest, ".") {
		return "", false
	}
	run := rest[1:]
	if sp := strings.IndexByte(run, ' '); sp >= 0 {
		run = run[:sp]
	}
	if run == "" || !isDigits(run) {
		return "", false
	}
	return run, true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// OSVersion joins the OS version segments, stopping at the first absent one.
// Major and minor are joined with a dot when major is an integer and with a
// space otherwise ("8.1" but "Vista SP2"); later segments always use dots.
func OSVersion(o OS) (string, bool) {
	major, ok := o.Major.Get()
	if !ok {
		return "", false
	}

	var b strings.Builder
	b.WriteString(major)

	minor, ok := o.Minor.Get()
	if !ok {
		return b.String(), true
	}
	if isInteger(major) {
		b.WriteByte('.')
	} else {
		b.WriteByte(' ')
	}
	b.WriteString(minor)

	patch, ok := o.Patch.Get()
	if !ok {
		return b.String(), true
	}
	b.WriteByte('.')
	b.WriteString(patch)

	if pm, ok := o.PatchMinor.Get(); ok {
		b.WriteByte('.')
		b.WriteString(pm)
	}
	return b.String(), true
}

// isInteger reports whether s survives an integer round trip unchanged,
// so "08" and "+8" are not integers here.
func isInteger(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && strconv.Itoa(n) == s
}

// OSFull is the OS family followed by its version, if any.
func OSFull(o OS) (string, bool) {
	family, ok := o.Family.Get()
	if !ok {
		return "", false
	}
	if v, ok := OSVersion(o); ok {
		return family + " " + v, true
	}
	return strings.Clone(family), true
}
