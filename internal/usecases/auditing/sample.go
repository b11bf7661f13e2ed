package auditing

// Payload de demonstração no mesmo formato bruto do upstream. Passa pelo
// normalizador de verdade: contas de exemplo exercitam o mesmo caminho de
// código das contas reais, só trocam a origem do payload.
const samplePayload = `{
	"data": [
		{
			"id": "23850001",
			"name": "Summer Sale",
			"status": "ACTIVE",
			"objective": "OUTCOME_SALES",
			"insights": {
				"data": [
					{
						"spend": "1845.20",
						"impressions": "210500",
						"clicks": "6430",
						"actions": [
							{"action_type": "purchase", "value": "118"},
							{"action_type": "link_click", "value": "6100"}
						]
					}
				]
			},
			"adsets": {
				"data": [
					{
						"id": "23850101",
						"name": "US Women 25-45",
						"status": "ACTIVE",
						"insights": {
							"data": [
								{
									"spend": "1290.80",
									"impressions": "148000",
									"clicks": "4820",
									"actions": [
										{"action_type": "purchase", "value": "92"}
									]
								}
							]
						},
						"ads": {
							"data": [
								{
									"id": "23850201",
									"name": "Product Demo Video",
									"status": "ACTIVE",
									"insights": {
										"data": [
											{
												"spend": "840.30",
												"impressions": "98000",
												"clicks": "3400",
												"actions": [
													{"action_type": "purchase", "value": "70"}
												]
											}
										]
									}
								},
								{
									"id": "23850202",
									"name": "Carousel Lifestyle",
									"status": "ACTIVE",
									"insights": {
										"data": [
											{
												"spend": "450.50",
												"impressions": "50000",
												"clicks": "1420",
												"actions": [
													{"action_type": "purchase", "value": "22"}
												]
											}
										]
									}
								}
							]
						}
					},
					{
						"id": "23850102",
						"name": "Lookalike Purchasers",
						"status": "PAUSED",
						"insights": {
							"data": [
								{
									"spend": "554.40",
									"impressions": "62500",
									"clicks": "1610",
									"actions": [
										{"action_type": "purchase", "value": "26"}
									]
								}
							]
						}
					}
				]
			}
		},
		{
			"id": "23850002",
			"name": "Brand Awareness",
			"status": "ACTIVE",
			"objective": "OUTCOME_AWARENESS",
			"insights": {
				"data": [
					{
						"spend": "620.00",
						"impressions": "480000",
						"clicks": "1150",
						"actions": []
					}
				]
			},
			"adsets": {
				"data": [
					{
						"id": "23850103",
						"name": "Broad Reach BR",
						"status": "ACTIVE",
						"insights": {
							"data": [
								{
									"spend": "620.00",
									"impressions": "480000",
									"clicks": "1150"
								}
							]
						}
					}
				]
			}
		}
	]
}`

// sampleAccountIDs são os identificadores que disparam o modo demonstração
var sampleAccountIDs = map[string]bool{
	"demo":   true,
	"sample": true,
}

func isSampleAccount(accountID string) bool {
	return sampleAccountIDs[accountID]
}
