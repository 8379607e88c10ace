package app

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/mag_computer/internal/config"
	"github.com/relabs-tech/mag_computer/internal/mag"
	"github.com/relabs-tech/mag_computer/internal/orientation"
)

// displayData holds the latest readings shown on the OLED.
type displayData struct {
	mu sync.RWMutex

	sample      mag.Sample
	haveSample  bool
	heading     orientation.Heading
	haveHeading bool
}

// RunDisplay drives an SSD1306 OLED with the live field vector and
// heading, fed from MQTT.
func RunDisplay() error {
	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("display: periph host init: %w", err)
	}

	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("display: i2c open: %w", err)
	}
	defer bus.Close()

	opts := ssd1306.DefaultOpts
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		return fmt.Errorf("display: ssd1306 init: %w", err)
	}

	data := &displayData{}

	clientID := cfg.MQTTClientIDDisplay
	if clientID == "" {
		clientID = "mag-display-subscriber"
	}
	mqttOpts := mqtt.NewClientOptions().AddBroker(cfg.MQTTBroker).SetClientID(clientID)
	client := mqtt.NewClient(mqttOpts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)

	topicMag := cfg.TopicMag
	if topicMag == "" {
		topicMag = "mag/field"
	}
	token := client.Subscribe(topicMag, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s mag.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("display: sample unmarshal error: %v", err)
			return
		}
		data.mu.Lock()
		data.sample = s
		data.haveSample = true
		data.mu.Unlock()
	})
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}

	topicHeading := cfg.TopicHeading
	if topicHeading == "" {
		topicHeading = "mag/heading"
	}
	token = client.Subscribe(topicHeading, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var h orientation.Heading
		if err := json.Unmarshal(msg.Payload(), &h); err != nil {
			log.Printf("display: heading unmarshal error: %v", err)
			return
		}
		data.mu.Lock()
		data.heading = h
		data.haveHeading = true
		data.mu.Unlock()
	})
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}

	intervalMS := cfg.DisplayUpdateInterval
	if intervalMS <= 0 {
		intervalMS = 250
	}
	ticker := time.NewTicker(time.Duration(intervalMS) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: started")
	for range ticker.C {
		img := image1bit.NewVerticalLSB(dev.Bounds())

		data.mu.RLock()
		if data.haveSample {
			s := data.sample
			drawString(img, 0, 12, "MAGNETOMETER")
			drawString(img, 0, 26, fmt.Sprintf("X %6d", s.Mx))
			drawString(img, 0, 38, fmt.Sprintf("Y %6d", s.My))
			drawString(img, 0, 50, fmt.Sprintf("Z %6d", s.Mz))
			if data.haveHeading {
				drawString(img, 0, 62, fmt.Sprintf("HDG %5.1f", data.heading.Degrees))
			}
		} else {
			drawString(img, 0, 30, "waiting for data...")
		}
		data.mu.RUnlock()

		if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
			log.Printf("display: draw error: %v", err)
		}
	}
	return nil
}

func drawString(img *image1bit.VerticalLSB, x, y int, s string) {
	drawer := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: image1bit.On},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(s)
}
