package eastmoney

import (
	"context"
	"encoding/json"
	"regexp"

	"github.com/bobmcallan/fundwatch/internal/models"
	"github.com/bobmcallan/fundwatch/internal/textextract"
)

// Variable names the pingzhongdata JS source is known to carry.
const (
	fundInfoVar = "Data_fundInfo"
	managerVar  = "Data_currentFundManager"
)

// flexString handles JSON values that may arrive as a string or a number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	*f = ""
	return nil
}

// fundInfoPayload covers the aliases under which scale and establish date
// have been observed in the basic-info literal.
type fundInfoPayload struct {
	EstablishDate flexString `json:"establishDate"`
	EstabDate     flexString `json:"ESTABDATE"`
	SetupDate     flexString `json:"ssrq"`
	FundScale     flexString `json:"fundScale"`
	EndNav        flexString `json:"ENDNAV"`
	Scale         flexString `json:"scale"`
}

type managerEntry struct {
	Name string `json:"name"`
}

// Regex fallbacks for when the loose-literal rewrite misfires on the
// surrounding JS.
var (
	establishDateRe = regexp.MustCompile(`(?:establishDate|ESTABDATE|ssrq)['"]?\s*[:=]\s*['"](\d{4}-\d{2}-\d{2})['"]`)
	scaleRe         = regexp.MustCompile(`(?:fundScale|ENDNAV|scale)['"]?\s*[:=]\s*['"]([^'"]+)['"]`)
	managerNameRe   = regexp.MustCompile(`Data_currentFundManager\s*=\s*\[\s*\{[^\]]*?name\s*:\s*['"]([^'"]+)['"]`)
)

// GetFundInfo retrieves the best-effort static facts for a fund from the
// pingzhongdata JS source. Each field is resolved independently — first via
// the loose-literal extraction, then via a regex over the raw text — and
// partial results are returned as-is. Only when no field at all resolves is
// the result nil.
func (c *Client) GetFundInfo(ctx context.Context, code string) (*models.StaticInfo, error) {
	body, err := c.getText(ctx, c.detailURL(code))
	if err != nil {
		return nil, err
	}

	info := parseStaticInfo(body)
	if info.Empty() {
		c.logger.Debug().Str("code", code).Msg("No static info resolved")
		return nil, nil
	}
	return info, nil
}

func parseStaticInfo(jsText string) *models.StaticInfo {
	info := &models.StaticInfo{}

	if raw := textextract.ExtractLooseJSObject(jsText, fundInfoVar); raw != nil {
		var payload fundInfoPayload
		if json.Unmarshal(raw, &payload) == nil {
			info.EstablishDate = firstNonEmpty(string(payload.EstablishDate), string(payload.EstabDate), string(payload.SetupDate))
			info.Scale = firstNonEmpty(string(payload.FundScale), string(payload.EndNav), string(payload.Scale))
		}
	}

	if info.EstablishDate == "" {
		if m := establishDateRe.FindStringSubmatch(jsText); m != nil {
			info.EstablishDate = m[1]
		}
	}
	if info.Scale == "" {
		if m := scaleRe.FindStringSubmatch(jsText); m != nil {
			info.Scale = m[1]
		}
	}

	if raw := textextract.ExtractLooseJSObject(jsText, managerVar); raw != nil {
		var managers []managerEntry
		if json.Unmarshal(raw, &managers) == nil && len(managers) > 0 {
			info.Manager = managers[0].Name
		}
	}
	if info.Manager == "" {
		if m := managerNameRe.FindStringSubmatch(jsText); m != nil {
			info.Manager = m[1]
		}
	}

	return info
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
