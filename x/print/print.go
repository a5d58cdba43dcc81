// Package print renders keys, tokens and inspection reports for the terminal
package print

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/effective-security/jwtinspect/fields"
	"github.com/effective-security/jwtinspect/inspect"
	"github.com/effective-security/jwtinspect/jwk"
	"github.com/effective-security/jwtinspect/jwt"
	"github.com/effective-security/xlog"
	"github.com/olekukonko/tablewriter"
)

// JSON prints value to out
func JSON(w io.Writer, value any) {
	js, _ := json.MarshalIndent(value, "", "  ")
	fmt.Fprintln(w, string(js))
}

// Report prints the inspection report
func Report(w io.Writer, r *inspect.Report) {
	if r.Key != nil {
		KeyInfo(w, r.Key, r.KeyThumbprint)
	}
	if r.KeyError != nil {
		fmt.Fprintf(w, "Key error: %s\n", r.KeyError.Error())
	}
	if r.ParseError != nil {
		fmt.Fprintf(w, "Token error: %s\n", r.ParseError.Error())
	}
	if r.Header != nil {
		fmt.Fprintln(w, "Header:")
		Header(w, r.Header)
	}

	fmt.Fprintf(w, "Status: %s\n", r.Status)
	if r.Error != nil {
		fmt.Fprintf(w, "Error: %s\n", r.Error.Error())
		if tip := r.Tip(); tip != "" {
			fmt.Fprintf(w, "Tip: %s\n", tip)
		}
	}

	if r.Claims != nil {
		if r.Verified {
			fmt.Fprintln(w, "Claims:")
		} else {
			fmt.Fprintln(w, "Claims (untrusted):")
		}
		Claims(w, r.Claims, r.Groups)
	}
}

// KeyInfo prints key description
func KeyInfo(w io.Writer, info *jwk.Info, thumbprint string) {
	fmt.Fprintf(w, "Key: %s\n", info.Type)
	usage := "verification"
	if info.IsSigningKey {
		usage = "signing and verification"
	}
	fmt.Fprintf(w, "Usage: %s\n", usage)
	if thumbprint != "" {
		fmt.Fprintf(w, "Thumbprint: %s\n", thumbprint)
	}
}

// Header prints the token header
func Header(w io.Writer, h *jwt.Header) {
	table := newTable(w, "Header", "Name", "Value")

	row := func(name, v string) {
		if v == "" {
			return
		}
		desc := ""
		if sh, ok := fields.GetHeader(name); ok {
			desc = sh.Name
		}
		table.Append([]string{name, desc, v})
	}

	row("alg", h.Algorithm)
	row("typ", h.TokenType)
	row("kid", h.KeyID)
	row("jku", h.KeySetURL)
	row("x5u", h.CertificateURL)
	if len(h.CertificateThumbprint) > 0 {
		row("x5t#S256", h.CertificateThumbprint.String())
	}

	extra := make([]string, 0, len(h.Extra))
	for name := range h.Extra {
		extra = append(extra, name)
	}
	sort.Strings(extra)
	for _, name := range extra {
		row(name, value(h.Extra[name]))
	}

	table.Render()
}

// Claims prints claims grouped by category
func Claims(w io.Writer, claims *jwt.Claims, groups []fields.ClaimGroup) {
	table := newTable(w, "Category", "Claim", "Name", "Value")
	table.SetAutoMergeCells(true)
	table.SetRowLine(true)

	for _, g := range groups {
		for _, name := range g.Names {
			desc := ""
			if sc, ok := fields.GetClaim(name); ok {
				desc = sc.Name
			}
			table.Append([]string{g.Category.Title, name, desc, claimValue(claims, name)})
		}
	}
	table.Render()
}

// Fields prints the registered claims grouped by category,
// or the registered headers
func Fields(w io.Writer, reg *fields.Registry, headers bool) {
	if headers {
		table := newTable(w, "Header", "Name", "Description")
		for _, name := range reg.HeaderNames() {
			h := reg.HeaderByName(name)
			table.Append([]string{name, h.Name, h.Description})
		}
		table.Render()
		return
	}

	table := newTable(w, "Category", "Claim", "Name", "Description")
	table.SetAutoMergeCells(true)
	table.SetRowLine(true)
	for _, g := range reg.GroupClaims(reg.ClaimNames()) {
		for _, name := range g.Names {
			c := reg.ClaimByName(name)
			table.Append([]string{g.Category.Title, name, c.Name, c.Description})
		}
	}
	table.Render()
}

func newTable(w io.Writer, hdrs ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	aligns := make([]int, len(hdrs))
	for i := range aligns {
		aligns[i] = tablewriter.ALIGN_LEFT
	}
	table.SetHeader(hdrs)
	table.SetColumnAlignment(aligns)
	table.SetAutoWrapText(false)
	return table
}

func claimValue(claims *jwt.Claims, name string) string {
	v, ok := claims.Get(name)
	if !ok {
		return ""
	}
	if _, isTime := v.(time.Time); isTime {
		return claims.String(name)
	}
	return value(v)
}

func value(v any) string {
	switch tv := v.(type) {
	case nil:
		return "null"
	case string:
		return tv
	case json.Number:
		return tv.String()
	case bool:
		return strconv.FormatBool(tv)
	default:
		js, err := json.Marshal(tv)
		if err != nil {
			return xlog.EscapedString(tv)
		}
		return string(js)
	}
}
