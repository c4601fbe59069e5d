package decode

import (
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"github.com/cognicore/resparse/pkg/resparse/labels"
	"github.com/cognicore/resparse/pkg/resparse/tokenize"
)

var basicsKeys = map[labels.Label]string{
	labels.Name:     "name",
	labels.Headline: "label",
	labels.Email:    "email",
	labels.Phone:    "phone",
	labels.Website:  "website",
}

// Basics decodes the single basics record. Scalar fields keep their first
// occurrence, profiles accumulate, and location text is split by the
// address parser. Chunks the sub-parsers reject are skipped.
func (d *Decoder) Basics(tagged []labels.Tagged) Record {
	rec := Record{}
	var profiles []Record
	for _, g := range GroupTokens(tagged) {
		if labels.Structural(g.Label) {
			continue
		}
		text := g.Text()
		if text == "" {
			continue
		}
		switch g.Label {
		case labels.Location:
			if _, ok := rec["location"]; ok {
				continue
			}
			fields, _, err := d.address.Parse(text)
			if err != nil {
				d.logger.Debug("skipping location chunk",
					zap.String("section", string(labels.Basics)),
					zap.String("chunk", text),
					zap.Error(err))
				continue
			}
			if len(fields) == 0 {
				continue
			}
			loc := Record{}
			for k, v := range fields {
				loc[k] = v
			}
			rec["location"] = loc
		case labels.Profile:
			profiles = append(profiles, profile(g.Tokens))
		case labels.Name:
			if _, ok := rec["name"]; ok {
				continue
			}
			if _, _, err := d.name.Parse(text); err != nil {
				d.logger.Debug("skipping name chunk",
					zap.String("section", string(labels.Basics)),
					zap.String("chunk", text),
					zap.Error(err))
				continue
			}
			rec["name"] = text
		default:
			key, ok := basicsKeys[g.Label]
			if !ok {
				continue
			}
			if _, seen := rec[key]; !seen {
				rec[key] = text
			}
		}
	}
	if len(profiles) > 0 {
		rec["profiles"] = profiles
	}
	return rec
}

// profile builds a {network, url} record from a profile run such as
// "github.com/bdewilde", or {network, username} from "GitHub: bdewilde".
func profile(tokens []tokenize.Token) Record {
	for _, tok := range tokens {
		if tok.LikeURL {
			return Record{"network": network(tok.Text), "url": tok.Text}
		}
	}
	text := tokenize.Join(tokens)
	if site, user, ok := strings.Cut(text, ":"); ok {
		return Record{"network": strings.ToLower(strings.TrimSpace(site)), "username": strings.TrimSpace(user)}
	}
	return Record{"url": text}
}

// network names the profile site after the registrable domain of a URL,
// e.g. "github" for "https://www.github.com/bdewilde".
func network(raw string) string {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	suffix, _ := publicsuffix.PublicSuffix(domain)
	return strings.TrimSuffix(domain, "."+suffix)
}
