// frame-inventory queries the frame database filled by prepare-dataset.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/specred/specred/internal/cli"
	"github.com/specred/specred/internal/inventory"
	"github.com/specred/specred/internal/log"
)

func main() {
	common := cli.Flags("[flags] nights OBJECT | frames NIGHT | card NIGHT FILE KEY")
	dbPath := flag.String("db", "", "Inventory database (default from config)")
	cfg := common.Start(2)
	defer log.Sync()

	if *dbPath == "" {
		*dbPath = cfg.Paths.Inventory
	}
	if *dbPath == "" {
		cli.Exit(fmt.Errorf("no inventory database configured, pass -db"))
	}

	inv, err := inventory.Open(*dbPath)
	if err != nil {
		cli.Exit(err)
	}
	defer inv.Close()

	if err := run(context.Background(), inv, flag.Args()); err != nil {
		cli.Exit(err)
	}
}

func run(ctx context.Context, inv *inventory.Inventory, args []string) error {
	switch args[0] {
	case "nights":
		nights, err := inv.Objects(ctx, args[1])
		if err != nil {
			return err
		}
		for _, n := range nights {
			fmt.Println(n)
		}
		return nil

	case "frames":
		recs, err := inv.Frames(ctx, args[1])
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "FILE\tOBJECT\tIMAGETYP\tIMAGECAT\tEXPTIME\tMJD\tGRISM\tSLIT\t")
		for _, r := range recs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%g\t%.5f\t%s\t%s\t\n",
				r.Filename, r.Object, r.ImageType, r.ImageCat, r.Exptime, r.MJD, r.Grism, r.Slit)
		}
		return tw.Flush()

	case "card":
		if len(args) < 4 {
			return fmt.Errorf("card needs NIGHT FILE KEY")
		}
		v, ok, err := inv.Card(ctx, args[1], args[2], args[3])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s has no %s card in night %s", args[2], args[3], args[1])
		}
		fmt.Println(v)
		return nil
	}
	return fmt.Errorf("unknown query %q", args[0])
}
