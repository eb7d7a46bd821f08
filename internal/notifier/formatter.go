package notifier

import (
	"fmt"
	"html"
	"strings"

	"StockScout/internal/model"

	"github.com/shopspring/decimal"
)

func money(p float64) string {
	return "$" + decimal.NewFromFloat(p).StringFixed(2)
}

// FormatRecommendation formats a new recommendation for Telegram.
func FormatRecommendation(rec *model.Recommendation) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 <b>Recommended Stock: %s</b> | %s\n\n",
		html.EscapeString(rec.Ticker), rec.CreatedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Current Price: %s\n", money(rec.CurrentPrice)))
	b.WriteString(fmt.Sprintf("Historical Support Level: %s\n", money(rec.SupportLevel)))
	b.WriteString(fmt.Sprintf("Buy Price: %s\n", money(rec.BuyPrice)))
	b.WriteString(fmt.Sprintf("Sell Price: %s\n", money(rec.SellPrice)))
	b.WriteString(fmt.Sprintf("Stop Loss: %s\n", money(rec.StopLossPrice)))
	return b.String()
}

// FormatOutcome formats the end of a monitor run.
func FormatOutcome(rec *model.Recommendation, res *model.MonitorResult) string {
	ticker := html.EscapeString(res.Ticker)
	switch res.Outcome {
	case model.OutcomeSold:
		return fmt.Sprintf("✅ <b>%s</b> hit the sell price of %s at %s. Time to sell!",
			ticker, money(rec.SellPrice), money(res.LastPrice))
	case model.OutcomeStoppedOut:
		return fmt.Sprintf("🛑 <b>%s</b> hit the stop-loss price of %s at %s. Time to exit!",
			ticker, money(rec.StopLossPrice), money(res.LastPrice))
	case model.OutcomeNoData:
		return fmt.Sprintf("⚠️ No price data found for <b>%s</b>. Stock may be delisted.", ticker)
	case model.OutcomeError:
		msg := "unknown error"
		if res.Err != nil {
			msg = html.EscapeString(res.Err.Error())
		}
		return fmt.Sprintf("❌ Error tracking <b>%s</b>: %s", ticker, msg)
	default:
		return fmt.Sprintf("⏹ Stopped tracking <b>%s</b> after %d checks.", ticker, res.Ticks)
	}
}
