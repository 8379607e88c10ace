package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/mag_computer/internal/config"
	"github.com/relabs-tech/mag_computer/internal/mag"
	"github.com/relabs-tech/mag_computer/internal/orientation"
)

// RunConsoleMQTT subscribes to the magnetometer topics and prints live
// readings until Ctrl+C.
func RunConsoleMQTT() error {
	cfg := config.Get()

	clientID := cfg.MQTTClientIDConsole
	if clientID == "" {
		clientID = "mag-console-subscriber"
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	topicMag := cfg.TopicMag
	if topicMag == "" {
		topicMag = "mag/field"
	}
	magToken := client.Subscribe(topicMag, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s mag.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: sample unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[MAG ]  mx=%6d my=%6d mz=%6d  |B|=%8.1f  %s\n",
			s.Mx, s.My, s.Mz, s.Norm, s.Time,
		)
	})
	magToken.Wait()
	if magToken.Error() != nil {
		return magToken.Error()
	}
	log.Printf("console: subscribed to %s", topicMag)

	topicHeading := cfg.TopicHeading
	if topicHeading == "" {
		topicHeading = "mag/heading"
	}
	headingToken := client.Subscribe(topicHeading, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var h orientation.Heading
		if err := json.Unmarshal(msg.Payload(), &h); err != nil {
			log.Printf("console: heading unmarshal error: %v", err)
			return
		}

		fmt.Printf("[HEAD]  %6.1f deg\n", h.Degrees)
	})
	headingToken.Wait()
	if headingToken.Error() != nil {
		return headingToken.Error()
	}
	log.Printf("console: subscribed to %s", topicHeading)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
