package intent

import (
	"errors"
	"fmt"
	"strconv"
)

type Kind string

const (
	KindProductInfo Kind = "product_info"
	KindGeneral     Kind = "general_conversation"
)

// wireProductInfo is what the remote model is asked to emit for product intents.
const wireProductInfo = "get_product_info_for_llm"

type InfoType string

const (
	InfoSearch  InfoType = "search"
	InfoStock   InfoType = "stock"
	InfoDetails InfoType = "details"
)

const (
	ParamInfoType      = "info_type"
	ParamProductSearch = "product_search"
	ParamMessage       = "message"
)

type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

var ErrInvalidShape = errors.New("invalid intent payload")

type Result struct {
	Kind       Kind              `json:"kind"`
	Params     map[string]string `json:"params"`
	Confidence float64           `json:"confidence"`
	Source     Source            `json:"source"`
}

func (r Result) IsProduct() bool {
	return r.Kind == KindProductInfo
}

func (r Result) InfoType() InfoType {
	switch InfoType(r.Params[ParamInfoType]) {
	case InfoStock:
		return InfoStock
	case InfoDetails:
		return InfoDetails
	default:
		return InfoSearch
	}
}

func (r Result) ProductSearch() string {
	return r.Params[ParamProductSearch]
}

func parseKind(v string) (Kind, bool) {
	switch v {
	case wireProductInfo, string(KindProductInfo):
		return KindProductInfo, true
	case string(KindGeneral):
		return KindGeneral, true
	}
	return "", false
}

// Validate converts an untyped remote payload into a Result. The payload must
// carry a recognised intent, a params object and a numeric confidence in [0,1].
func Validate(payload map[string]any) (Result, error) {
	if payload == nil {
		return Result{}, fmt.Errorf("%w: empty payload", ErrInvalidShape)
	}

	rawIntent, ok := payload["intent"].(string)
	if !ok {
		return Result{}, fmt.Errorf("%w: intent missing or not a string", ErrInvalidShape)
	}
	kind, ok := parseKind(rawIntent)
	if !ok {
		return Result{}, fmt.Errorf("%w: unknown intent %q", ErrInvalidShape, rawIntent)
	}

	rawParams, ok := payload["params"].(map[string]any)
	if !ok {
		return Result{}, fmt.Errorf("%w: params missing or not an object", ErrInvalidShape)
	}

	confidence, ok := payload["confidence"].(float64)
	if !ok {
		return Result{}, fmt.Errorf("%w: confidence missing or not a number", ErrInvalidShape)
	}
	if confidence < 0 || confidence > 1 {
		return Result{}, fmt.Errorf("%w: confidence %v out of range", ErrInvalidShape, confidence)
	}

	params := make(map[string]string, len(rawParams))
	for k, v := range rawParams {
		params[k] = stringify(v)
	}

	return Result{Kind: kind, Params: params, Confidence: confidence, Source: SourceRemote}, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
