// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/mag_computer/internal/config"
	"github.com/relabs-tech/mag_computer/internal/mag"
	"github.com/relabs-tech/mag_computer/internal/orientation"
	"github.com/relabs-tech/mag_computer/internal/qmc5883"
)

// mqttMagConsumer publishes every captured scan as a mag.Sample plus
// a derived heading.
type mqttMagConsumer struct {
	client       mqtt.Client
	source       string
	topicMag     string
	topicHeading string
}

func (p *mqttMagConsumer) Push(scan qmc5883.Scan) {
	mx := int16(scan.Chans[0])
	my := int16(scan.Chans[1])
	mz := int16(scan.Chans[2])

	x, y, z := float64(mx), float64(my), float64(mz)
	sample := mag.Sample{
		Source: p.source,
		Mx:     mx,
		My:     my,
		Mz:     mz,
		Norm:   math.Sqrt(x*x + y*y + z*z),
		Time:   time.Unix(0, scan.Timestamp).UTC().Format(time.RFC3339Nano),
	}

	payload, err := json.Marshal(sample)
	if err != nil {
		log.Printf("producer: sample marshal error: %v", err)
		return
	}
	if token := p.client.Publish(p.topicMag, 0, true, payload); token.Wait() && token.Error() != nil {
		log.Printf("producer: MQTT publish error (%s): %v", p.topicMag, token.Error())
		return
	}

	heading := orientation.HeadingFromMag(x, y)
	if payload, err := json.Marshal(heading); err != nil {
		log.Printf("producer: heading marshal error: %v", err)
	} else {
		p.client.Publish(p.topicHeading, 0, true, payload)
	}
}

// RunMagProducer initializes the magnetometer over I2C and runs the
// triggered-capture loop, publishing samples over MQTT until SIGINT or
// SIGTERM. SIGUSR1 suspends the chip (standby), SIGUSR2 resumes it.
func RunMagProducer() error {
	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("producer: periph host init: %w", err)
	}

	bus, err := i2creg.Open(cfg.MagI2CBus)
	if err != nil {
		return fmt.Errorf("producer: i2c open %q: %w", cfg.MagI2CBus, err)
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
		return fmt.Errorf("producer: device init: %w", err)
	}
	defer dev.Close()

	info := dev.Variant()
	log.Printf("producer: %s on i2c addr 0x%02X", info.Name, cfg.MagI2CAddr)
	log.Printf("producer: rates available: %s Hz", info.AvailableSampleRates())
	log.Printf("producer: scales available: %s G", info.AvailableScales())
	log.Printf("producer: oversampling available: %s", info.AvailableOversampleRatios())

	if cfg.MagSampleRateHz > 0 {
		if err := dev.SetSampleRate(cfg.MagSampleRateHz, 0); err != nil {
			return fmt.Errorf("producer: set sample rate: %w", err)
		}
	}
	if cfg.MagRangeGauss > 0 {
		if err := dev.SetScale(cfg.MagRangeGauss); err != nil {
			return fmt.Errorf("producer: set scale: %w", err)
		}
	}
	if cfg.MagOversample > 0 {
		if err := dev.SetOversamplingRatio(cfg.MagOversample, 0); err != nil {
			return fmt.Errorf("producer: set oversampling: %w", err)
		}
	}

	if temp, err := dev.ReadTemperature(); err != nil {
		log.Printf("producer: temperature read failed: %v", err)
	} else {
		log.Printf("producer: die temperature %.2f C (uncalibrated offset)", temp)
	}

	clientID := cfg.MQTTClientIDProducer
	if clientID == "" {
		clientID = "mag-producer"
	}
	opts := mqtt.NewClientOptions().AddBroker(cfg.MQTTBroker).SetClientID(clientID)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("producer: MQTT connect: %w", token.Error())
	}
	defer client.Disconnect(250)

	topicMag := cfg.TopicMag
	if topicMag == "" {
		topicMag = "mag/field"
	}
	topicHeading := cfg.TopicHeading
	if topicHeading == "" {
		topicHeading = "mag/heading"
	}

	consumer := &mqttMagConsumer{
		client:       client,
		source:       dev.Name(),
		topicMag:     topicMag,
		topicHeading: topicHeading,
	}

	interval := time.Duration(cfg.CaptureInterval) * time.Millisecond
	capture := qmc5883.NewCapture(dev, consumer, interval, nil)
	capture.Start()
	log.Printf("producer: capture started, interval %v", interval)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)
	for sig := range sigCh {
		switch sig {
		case syscall.SIGUSR1:
			if err := dev.Suspend(); err != nil {
				log.Printf("producer: suspend failed: %v", err)
			} else {
				log.Println("producer: suspended (standby)")
			}
		case syscall.SIGUSR2:
			if err := dev.Resume(); err != nil {
				log.Printf("producer: resume failed: %v", err)
			} else {
				log.Println("producer: resumed (continuous)")
			}
		default:
			log.Println("producer: shutting down")
			// Teardown order matters: stop the capture path first,
			// then Close forces standby.
			capture.Stop()
			return nil
		}
	}
	return nil
}
