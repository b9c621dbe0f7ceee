package wrapped

import (
	"fmt"
	"time"

	"github.com/sol-wrapped/pkg/model"
)

// FilterByMonth narrows a summary to one 0-based calendar month (UTC).
// Only SOL rows count toward volume, inflow and outflow.
func FilterByMonth(s model.Summary, month int) (model.MonthView, error) {
	if month < 0 || month > 11 {
		return model.MonthView{}, fmt.Errorf("month %d out of range 0-11", month)
	}
	year := s.PeriodStart.Year()
	if s.PeriodStart.IsZero() {
		year = time.Now().UTC().Year()
	}
	days := time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()

	v := model.MonthView{Address: s.Address, Month: month, Activity: make([]model.DayActivity, days)}
	for i := range v.Activity {
		v.Activity[i].Day = i + 1
	}

	var volume, inflow, outflow float64
	for _, tx := range s.AllTransactions {
		t := time.Unix(tx.Timestamp, 0).UTC()
		if int(t.Month())-1 != month {
			continue
		}
		v.Transactions = append(v.Transactions, tx)
		if d := t.Day(); d <= days {
			v.Activity[d-1].Total++
		}
		if tx.Currency != model.NativeSymbol {
			continue
		}
		if tx.Direction == model.DirectionIn {
			inflow += tx.Amount
		} else {
			outflow += tx.Amount
		}
		volume += tx.Amount
	}

	v.TransactionCount = len(v.Transactions)
	v.TotalVolume = round(volume, 2)
	v.TotalInflow = round(inflow, 2)
	v.TotalInflowUSD = round(inflow*s.SolPrice, 2)
	v.TotalOutflow = round(outflow, 2)
	v.TotalOutflowUSD = round(outflow*s.SolPrice, 2)
	return v, nil
}
