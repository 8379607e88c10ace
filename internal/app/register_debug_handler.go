// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/mag_computer/internal/qmc5883"
)

// RegisterCmd is one websocket request from the register debug UI.
type RegisterCmd struct {
	Action  string `json:"action"` // "read", "read_all", "write", "map", "axis", "suspend", "resume"
	Address string `json:"addr,omitempty"`
	Value   string `json:"value,omitempty"`
	Axis    int    `json:"axis,omitempty"`
}

// RegisterResponse is the reply schema shared by all actions.
type RegisterResponse struct {
	Type        string                 `json:"type"` // "register_data", "register_map", "axis_data", "status", "error"
	Address     string                 `json:"addr,omitempty"`
	Value       string                 `json:"value,omitempty"`
	Axis        int                    `json:"axis,omitempty"`
	Raw         int32                  `json:"raw,omitempty"`
	Registers   map[string]string      `json:"registers,omitempty"`
	RegisterMap []qmc5883.RegisterInfo `json:"register_map,omitempty"`
	Timestamp   string                 `json:"timestamp,omitempty"`
	Message     string                 `json:"message,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // local debug tool
}

// NewRegisterDebugHandler returns a websocket handler that exposes
// register-level access to one device. Every transaction still goes
// through the device lock, so poking registers while the producer is
// capturing stays serialized.
func NewRegisterDebugHandler(dev *qmc5883.Device) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("regdebug: websocket upgrade error: %v", err)
			return
		}
		defer conn.Close()
		log.Printf("regdebug: client connected from %s", r.RemoteAddr)

		for {
			var cmd RegisterCmd
			if err := conn.ReadJSON(&cmd); err != nil {
				log.Printf("regdebug: read error (client gone?): %v", err)
				return
			}
			resp := handleRegisterCmd(dev, cmd)
			resp.Timestamp = time.Now().UTC().Format(time.RFC3339)
			if err := conn.WriteJSON(resp); err != nil {
				log.Printf("regdebug: write error: %v", err)
				return
			}
		}
	}
}

func handleRegisterCmd(dev *qmc5883.Device, cmd RegisterCmd) RegisterResponse {
	switch cmd.Action {
	case "read":
		addr, err := parseRegAddr(cmd.Address)
		if err != nil {
			return errResponse(err)
		}
		val, err := dev.ReadRegister(addr)
		if err != nil {
			return errResponse(err)
		}
		return RegisterResponse{
			Type:    "register_data",
			Address: fmt.Sprintf("0x%02X", addr),
			Value:   fmt.Sprintf("0x%02X", val),
		}

	case "read_all":
		regs := make(map[string]string)
		for _, info := range qmc5883.RegisterMap() {
			val, err := dev.ReadRegister(info.Address)
			if err != nil {
				return errResponse(err)
			}
			regs[fmt.Sprintf("0x%02X", info.Address)] = fmt.Sprintf("0x%02X", val)
		}
		return RegisterResponse{Type: "register_data", Registers: regs}

	case "write":
		addr, err := parseRegAddr(cmd.Address)
		if err != nil {
			return errResponse(err)
		}
		val, err := strconv.ParseUint(cmd.Value, 0, 8)
		if err != nil {
			return errResponse(fmt.Errorf("bad value %q: %w", cmd.Value, err))
		}
		if err := dev.WriteRegister(addr, byte(val)); err != nil {
			return errResponse(err)
		}
		return RegisterResponse{
			Type:    "status",
			Address: fmt.Sprintf("0x%02X", addr),
			Value:   fmt.Sprintf("0x%02X", val),
			Message: "written",
		}

	case "map":
		return RegisterResponse{Type: "register_map", RegisterMap: qmc5883.RegisterMap()}

	case "axis":
		raw, err := dev.ReadAxis(cmd.Axis)
		if err != nil {
			return errResponse(err)
		}
		return RegisterResponse{Type: "axis_data", Axis: cmd.Axis, Raw: raw}

	case "suspend":
		if err := dev.Suspend(); err != nil {
			return errResponse(err)
		}
		return RegisterResponse{Type: "status", Message: "standby"}

	case "resume":
		if err := dev.Resume(); err != nil {
			return errResponse(err)
		}
		return RegisterResponse{Type: "status", Message: "continuous"}

	default:
		return errResponse(fmt.Errorf("unknown action %q", cmd.Action))
	}
}

func parseRegAddr(s string) (byte, error) {
	addr, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("bad register address %q: %w", s, err)
	}
	return byte(addr), nil
}

func errResponse(err error) RegisterResponse {
	return RegisterResponse{Type: "error", Message: err.Error()}
}
