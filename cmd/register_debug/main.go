// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"fmt"
	"log"
	"net/http"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/mag_computer/internal/app"
	"github.com/relabs-tech/mag_computer/internal/config"
	"github.com/relabs-tech/mag_computer/internal/qmc5883"
)

func main() {
	log.Println("starting QMC5883L register debug tool (standalone)")

	if err := config.InitGlobal("mag_config.txt"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		log.Fatalf("periph host init: %v", err)
	}
	bus, err := i2creg.Open(cfg.MagI2CBus)
	if err != nil {
		log.Fatalf("i2c open %q: %v", cfg.MagI2CBus, err)
	}
	defer bus.Close()

	var mount qmc5883.MountMatrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			mount[i][j] = cfg.MountMatrix[3*i+j]
		}
	}

	tr := qmc5883.NewI2CTransport(bus, cfg.MagI2CAddr)
	dev, err := qmc5883.New(tr, qmc5883.QMC5883L, "qmc5883l", mount)
	if err != nil {
		log.Fatalf("device init: %v", err)
	}
	defer dev.Close()

	http.HandleFunc("/ws", app.NewRegisterDebugHandler(dev))
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "web/register_debug.html")
	})

	port := cfg.RegisterDebugPort
	if port == 0 {
		port = 8081
	}
	addr := fmt.Sprintf(":%d", port)
	log.Printf("register debug tool listening on %s", addr)
	log.Printf("open http://localhost%s in your browser", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
