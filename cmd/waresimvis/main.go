// Command waresimvis provides a live GUI view of the warehouse
// simulation. Space plays and pauses, right arrow single-steps, R
// resets the layout, left click places obstacles (1 temporary, 2
// semi-permanent), right click clears, D switches clicks to moving the
// drop point.
package main

import (
	"log"
	"os"
	"strings"
	"time"

	"gioui.org/app"
	"gioui.org/unit"
	"github.com/spf13/viper"

	"github.com/elektrokombinacija/warehouse-sim/internal/config"
	"github.com/elektrokombinacija/warehouse-sim/internal/sim"
	"github.com/elektrokombinacija/warehouse-sim/internal/vis"
)

func main() {
	config.SetDefaults()
	viper.SetConfigName("waresim")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("WARESIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	simulation, err := sim.New(cfg.Params(), sim.NopTracker{})
	if err != nil {
		log.Fatal(err)
	}

	go func() {
		window := new(app.Window)
		window.Option(
			app.Title("Warehouse Simulation"),
			app.Size(unit.Dp(1200), unit.Dp(900)),
		)

		application := vis.NewApp(simulation, time.Duration(cfg.Run.TickMs)*time.Millisecond)
		if err := application.Run(window); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}
