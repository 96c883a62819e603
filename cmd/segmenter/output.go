package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"rfmpulse/internal/exporter"
	"rfmpulse/internal/services"
	"rfmpulse/pkg/contracts/domain"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printStrategies(w io.Writer, result *services.ExportResult) {
	fmt.Fprintf(w, "Run %s, period %s: %d customers in %d segments\n\n",
		result.RunID, result.Period, result.Customers, len(result.Profiles))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEGMENT\tCUSTOMERS\tPRODUCT\tCITY\tAGE\tSTRATEGY")
	for _, p := range result.Profiles {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
			p.Segment, p.CustomerCount, p.DominantProduct, p.DominantCity, p.TargetAgeBucket, p.Strategy)
	}
	tw.Flush()

	fmt.Fprintln(w)
	for _, p := range result.Profiles {
		fmt.Fprintf(w, "%s\n  %s\n", p.Segment, p.StrategyText)
	}

	fmt.Fprintf(w, "\nStrategies: %s\nCustomers:  %s\n", result.StrategiesFile, result.CustomersFile)
}

func printSummary(w io.Writer, s *domain.ExecutiveSummary) {
	fmt.Fprintf(w, "Executive summary: %s\n\n", s.Period)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total revenue\t%s\n", s.TotalRevenueLabel)
	fmt.Fprintf(tw, "Orders\t%d\n", s.TotalOrders)
	fmt.Fprintf(tw, "Customers\t%d\n", s.TotalCustomers)
	fmt.Fprintf(tw, "Orders per customer\t%.2f\n", s.OrdersPerCustomer)
	fmt.Fprintf(tw, "Ads purchases\t%d\n", s.AdsPurchases)
	tw.Flush()

	printRanking(w, "Top products", s.TopProducts)
	printRanking(w, "Top cities", s.TopCities)

	for _, h := range s.PeriodHighlights {
		printRanking(w, "Top products "+string(h.Period), h.Products)
	}
}

func printRanking(w io.Writer, title string, ranked []domain.RankedRevenue) {
	if len(ranked) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range ranked {
		marker := ""
		if r.TopOverall {
			marker = "*"
		}
		fmt.Fprintf(tw, "  %d.\t%s%s\t%s\n", r.Rank, r.Name, marker, exporter.FormatRupiah(r.Revenue))
	}
	tw.Flush()
}
