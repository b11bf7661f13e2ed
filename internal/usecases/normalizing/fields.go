package normalizing

import (
	"math"
	"strconv"
)

// counterSpec é a tabela de prioridade de campos de um contador. O payload
// bruto varia de nome a cada versão da API ("spend", "amount_spent",
// "lifetime_spend"...), então o primeiro candidato presente e coercível em
// número vence, e nada abaixo do normalizador volta a olhar nomes brutos.
type counterSpec struct {
	// campos diretos no registro, em ordem de prioridade
	direct []string
	// aceita o valor aninhado em budget.amount (apenas para spend)
	budgetAmount bool
	// campo no primeiro elemento da coleção aninhada de insights
	insightField string
	// soma de actions de conversão no primeiro elemento de insights
	insightActions bool
}

var counterSpecs = map[string]counterSpec{
	"spend": {
		direct:       []string{"spend", "amount_spent", "amountSpent", "lifetime_spend", "lifetimeSpend", "daily_spend", "dailySpend"},
		budgetAmount: true,
		insightField: "spend",
	},
	"impressions": {
		direct:       []string{"impressions", "impression_count", "impressionCount"},
		insightField: "impressions",
	},
	"clicks": {
		direct:       []string{"clicks", "click_count", "clickCount", "inline_link_clicks"},
		insightField: "clicks",
	},
	"conversions": {
		direct:         []string{"conversions", "conversion_count", "conversionCount", "purchases", "results"},
		insightField:   "conversions",
		insightActions: true,
	},
}

// conversionActionTypes são os tipos de ação do Graph contados como conversão
var conversionActionTypes = map[string]struct{}{
	"purchase":           {},
	"offsite_conversion": {},
	"onsite_conversion":  {},
	"lead":               {},
}

// coerceNumber converte um valor bruto em número finito. Retorna falso quando
// o valor está ausente ou não é coercível; valores negativos são grampeados
// em zero para que nenhuma razão derivada fique negativa.
func coerceNumber(v any) (float64, bool) {
	var n float64

	switch value := v.(type) {
	case float64:
		n = value
	case float32:
		n = float64(value)
	case int:
		n = float64(value)
	case int64:
		n = float64(value)
	case string:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, true
	}

	if n < 0 {
		return 0, true
	}

	return n, true
}

// resolveCounter percorre a tabela de prioridade e devolve o primeiro
// candidato coercível; sem nenhum, devolve zero
func resolveCounter(record map[string]any, name string) float64 {
	spec, ok := counterSpecs[name]
	if !ok {
		return 0
	}

	for _, field := range spec.direct {
		if raw, present := record[field]; present {
			if n, coercible := coerceNumber(raw); coercible {
				return n
			}
		}
	}

	if spec.budgetAmount {
		if budget, ok := record["budget"].(map[string]any); ok {
			if n, coercible := coerceNumber(budget["amount"]); coercible {
				return n
			}
		}
	}

	if insight := firstInsight(record); insight != nil {
		if spec.insightField != "" {
			if raw, present := insight[spec.insightField]; present {
				if n, coercible := coerceNumber(raw); coercible {
					return n
				}
			}
		}

		if spec.insightActions {
			if total, found := sumConversionActions(insight); found {
				return total
			}
		}
	}

	return 0
}

// firstInsight devolve o primeiro elemento da coleção aninhada de insights,
// aceitando tanto a forma paginada do Graph ({"data": [...]}) quanto a lista
// direta
func firstInsight(record map[string]any) map[string]any {
	raw, present := record["insights"]
	if !present {
		return nil
	}

	var list []any
	switch value := raw.(type) {
	case []any:
		list = value
	case map[string]any:
		if data, ok := value["data"].([]any); ok {
			list = data
		}
	}

	if len(list) == 0 {
		return nil
	}

	first, ok := list[0].(map[string]any)
	if !ok {
		return nil
	}

	return first
}

// sumConversionActions soma os valores das ações de conversão de um insight
func sumConversionActions(insight map[string]any) (float64, bool) {
	actions, ok := insight["actions"].([]any)
	if !ok {
		return 0, false
	}

	total := 0.0
	found := false

	for _, raw := range actions {
		action, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		actionType, _ := action["action_type"].(string)
		if _, counts := conversionActionTypes[actionType]; !counts {
			continue
		}

		if n, coercible := coerceNumber(action["value"]); coercible {
			total += n
			found = true
		}
	}

	return total, found
}

// stringField devolve o primeiro candidato presente como string. Valores
// numéricos (ids numéricos do upstream) são formatados.
func stringField(record map[string]any, candidates ...string) string {
	for _, field := range candidates {
		raw, present := record[field]
		if !present {
			continue
		}

		switch value := raw.(type) {
		case string:
			if value != "" {
				return value
			}
		case float64:
			return strconv.FormatFloat(value, 'f', -1, 64)
		}
	}

	return ""
}
