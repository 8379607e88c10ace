package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/mag_computer/internal/config"
	"github.com/relabs-tech/mag_computer/internal/mag"
	"github.com/relabs-tech/mag_computer/internal/orientation"
)

// RunWeb serves the latest magnetometer reading and heading over a
// JSON API, fed from MQTT.
func RunWeb() error {
	cfg := config.Get()

	var (
		mu          sync.RWMutex
		lastSample  mag.Sample
		haveSample  bool
		lastHeading orientation.Heading
		haveHeading bool
	)

	clientID := cfg.MQTTClientIDWeb
	if clientID == "" {
		clientID = "mag-web-subscriber"
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	topicMag := cfg.TopicMag
	if topicMag == "" {
		topicMag = "mag/field"
	}
	token := client.Subscribe(topicMag, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s mag.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("web: sample unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastSample = s
		haveSample = true
		mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to %s", topicMag)

	topicHeading := cfg.TopicHeading
	if topicHeading == "" {
		topicHeading = "mag/heading"
	}
	headingTok := client.Subscribe(topicHeading, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var h orientation.Heading
		if err := json.Unmarshal(msg.Payload(), &h); err != nil {
			log.Printf("web: heading unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastHeading = h
		haveHeading = true
		mu.Unlock()
	})
	headingTok.Wait()
	if headingTok.Error() != nil {
		return headingTok.Error()
	}

	http.HandleFunc("/api/field", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !haveSample {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lastSample); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	http.HandleFunc("/api/heading", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !haveHeading {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lastHeading); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	port := cfg.WebServerPort
	if port == 0 {
		port = 8080
	}
	addr := fmt.Sprintf(":%d", port)
	log.Printf("web: server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
