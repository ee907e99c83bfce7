// Package ai is the admin console's assistant: a Gemini tool-calling agent
// that can read the catalog, pull sales numbers and adjust prices on
// request. It is wired behind the admin role only.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-storefront/internal/database"
	"go-storefront/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

func RunAgent(userMessage string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")

	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the storefront admin assistant.

	RULES:
	1. UPDATE: If the admin asks to change a product price by NAME, do NOT ask for the ID. Instead:
	   - Call 'check_catalog' to find the ID.
	   - Call 'update_product_price' using that ID.
	2. READ: For PRICE, STOCK or DETAILS of a product, call 'check_catalog'
	   and read the JSON to answer. You CAN always get product data this way.
	3. SALES: For revenue or order counts, use 'get_sales_report'.
	4. COUPONS: To list promotion codes, use 'list_coupons'.

	USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_catalog",
					Description: "Get the full product catalog. Use this to find ANY product details like ID, Name, Price, Stock or Sold count.",
				},
				{
					Name:        "update_product_price",
					Description: "Update the price of a specific product using its ID",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"product_id": {Type: genai.TypeInteger, Description: "ID of the product"},
							"new_price":  {Type: genai.TypeInteger, Description: "New price in taka"},
						},
						Required: []string{"product_id", "new_price"},
					},
				},
				{
					Name:        "list_coupons",
					Description: "List all coupon codes with their discount rules and usage counts.",
				},
				{
					Name:        "get_sales_report",
					Description: "Get order revenue and count for a date range. Cancelled and returned orders are excluded.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			switch funcCall.Name {
			case "check_catalog":
				return executeCheckCatalog(ctx, session)
			case "update_product_price":
				return executeUpdatePrice(ctx, session, funcCall), nil
			case "list_coupons":
				return executeListCoupons(ctx, session), nil
			case "get_sales_report":
				return executeSalesReport(ctx, session, funcCall), nil
			}
		}
	}

	return printResponse(resp), nil
}

func executeCheckCatalog(ctx context.Context, session *genai.ChatSession) (string, error) {
	var products []models.Product
	database.DB.Find(&products)

	type SimpleProduct struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Stock int    `json:"stock"`
		Price int    `json:"price"`
		Sold  int    `json:"sold"`
	}
	var simpleList []SimpleProduct
	for _, p := range products {
		simpleList = append(simpleList, SimpleProduct{
			ID:    p.ID,
			Name:  p.Name,
			Stock: p.StockQuantity,
			Price: p.EffectivePrice(),
			Sold:  p.SoldCount,
		})
	}

	jsonBytes, _ := json.Marshal(simpleList)

	toolResp := genai.FunctionResponse{
		Name:     "check_catalog",
		Response: map[string]interface{}{"catalog": string(jsonBytes)},
	}

	finalResp, err := session.SendMessage(ctx, toolResp)
	if err != nil {
		return "", err
	}

	return handleRecursiveToolCalls(ctx, session, finalResp), nil
}

// handleRecursiveToolCalls covers the find-then-update chain: the model
// reads the catalog first, then issues the price update.
func handleRecursiveToolCalls(ctx context.Context, session *genai.ChatSession, resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			if funcCall.Name == "update_product_price" {
				return executeUpdatePrice(ctx, session, funcCall)
			}
		}
	}
	return printResponse(resp)
}

func executeUpdatePrice(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	args := funcCall.Args
	productID := int(args["product_id"].(float64))
	newPrice := int(args["new_price"].(float64))

	result := database.DB.Model(&models.Product{}).Where("id = ?", productID).Update("price", newPrice)

	msg := "Success"
	if result.RowsAffected == 0 {
		msg = "Product ID not found"
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "update_product_price",
		Response: map[string]interface{}{"status": msg, "new_price": newPrice},
	})
	return printResponse(finalResp)
}

func executeListCoupons(ctx context.Context, session *genai.ChatSession) string {
	var coupons []models.Coupon
	database.DB.Find(&coupons)

	jsonBytes, _ := json.Marshal(coupons)

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "list_coupons",
		Response: map[string]interface{}{"coupons": string(jsonBytes)},
	})
	return printResponse(finalResp)
}

func executeSalesReport(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	args := funcCall.Args
	startStr := args["start_date"].(string)
	endStr := args["end_date"].(string)

	start, err1 := time.Parse("2006-01-02", startStr)
	end, err2 := time.Parse("2006-01-02", endStr)

	if err1 != nil || err2 != nil {
		return "Error: Dates must be in YYYY-MM-DD format."
	}
	end = end.Add(23*time.Hour + 59*time.Minute)

	report, err := database.GetSalesReport(start, end)
	if err != nil {
		return "Error calculating sales."
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_sales_report",
		Response: map[string]interface{}{
			"revenue":     report.TotalRevenue,
			"order_count": report.TotalCount,
		},
	})
	return printResponse(finalResp)
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
