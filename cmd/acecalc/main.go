// Command acecalc prints the damage overview of a loadout and the best NPCs
// to farm with it.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/nzvengeance/aces-companion/internal/analysis"
	"github.com/nzvengeance/aces-companion/internal/catalog"
	"github.com/nzvengeance/aces-companion/internal/damage"
	"github.com/nzvengeance/aces-companion/internal/export"
	"github.com/nzvengeance/aces-companion/internal/farming"
	"github.com/nzvengeance/aces-companion/internal/models"
	"github.com/nzvengeance/aces-companion/internal/npcs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("acecalc", flag.ContinueOnError)
	fs.SetOutput(out)
	loadoutPath := fs.String("loadout", "", "YAML loadout file; omitted fields keep their defaults")
	npcPath := fs.String("npcs", "./data/npcs.json", "NPC catalog (JSON or YAML)")
	mapName := fs.String("map", "", "only rank NPCs on this map")
	search := fs.String("search", "", "only rank NPCs whose name or map matches")
	top := fs.Int("top", farming.DefaultTopN, "number of targets to show (0 for all)")
	searchTime := fs.Float64("search-time", farming.DefaultSearchTime, "seconds spent finding each target")
	style := fs.String("style", "vanilla", "NPC names: vanilla or mod")
	overlay := fs.String("catalog", "", "YAML catalog overlay")
	xlsxPath := fs.String("xlsx", "", "also write the ranking to this .xlsx file")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cat := catalog.Default()
	if *overlay != "" {
		var err error
		if cat, err = catalog.LoadFile(*overlay); err != nil {
			fmt.Fprintf(out, "catalog overlay: %v\n", err)
			return 1
		}
	}
	calc := damage.New(cat)

	loadout := models.DefaultLoadout()
	if *loadoutPath != "" {
		data, err := os.ReadFile(*loadoutPath)
		if err != nil {
			fmt.Fprintf(out, "loadout: %v\n", err)
			return 1
		}
		if err := yaml.Unmarshal(data, &loadout); err != nil {
			fmt.Fprintf(out, "loadout %s: %v\n", *loadoutPath, err)
			return 1
		}
	}

	res := calc.Overview(loadout)
	summary := analysis.Summarize(calc, loadout, res)
	fmt.Fprintln(out, summary.Text())
	fmt.Fprintf(out, "TTK vs %d HP: %.1fs\n", damage.Normalize(cat, loadout).NPCHP, res.TTKSeconds)
	fmt.Fprintln(out, summary.Slots.Text())

	nameStyle := npcs.ParseNameStyle(*style)
	list := npcs.Search(npcs.FilterByMap(npcs.LoadFile(*npcPath), *mapName), *search, nameStyle)
	rows := farming.Table(farming.Suggest(res.TotalDPS, list, farming.Options{SearchTime: *searchTime, TopN: *top}), nameStyle)

	fmt.Fprintln(out)
	if len(rows) == 0 {
		fmt.Fprintln(out, "No farming targets.")
	} else {
		printRows(out, rows)
	}

	if *xlsxPath != "" {
		title := fmt.Sprintf("Total DPS %.0f, search time %.0fs", res.TotalDPS, farming.ClampSearchTime(*searchTime))
		if err := export.SaveRanking(*xlsxPath, title, rows); err != nil {
			fmt.Fprintf(out, "xlsx: %v\n", err)
			return 1
		}
		fmt.Fprintf(out, "\nWrote %s\n", *xlsxPath)
	}
	return 0
}

func printRows(out io.Writer, rows []farming.Row) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tNPC\tMap\tHP\tURI/Kill\tTTK\tURI/min\tRating\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%.1fs\t%.0f\t%s\t\n",
			r.Rank, r.Name, r.Map, r.HP, r.RewardPerKill, r.TTK, r.RewardPerMinute, r.Rating)
	}
	tw.Flush()
}
