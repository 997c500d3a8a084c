// internal/registry/table.go
package registry

// Register addresses, scaling and enum codes follow the published BRINK
// FLAIR register map (documented for the 325 Plus, shared across the
// FLAIR family). Input registers are FC 4, holding registers FC 3/6.

var (
	onOffEnum = []EnumState{
		{Code: 0, Name: "Off"},
		{Code: 1, Name: "On"},
	}

	bypassStateEnum = []EnumState{
		{Code: 0, Name: "Initializing"},
		{Code: 1, Name: "Open"},
		{Code: 2, Name: "Closed"},
		{Code: 3, Name: "Open"},
		{Code: 4, Name: "Closed"},
		{Code: 255, Name: "Error"},
	}

	preheaterStateEnum = []EnumState{
		{Code: 0, Name: "Off"},
		{Code: 1, Name: "Starting"},
		{Code: 2, Name: "Active"},
	}

	filterStateEnum = []EnumState{
		{Code: 0, Name: "Clean"},
		{Code: 1, Name: "Dirty"},
	}

	bypassModeEnum = []EnumState{
		{Code: 0, Name: "Automatic"},
		{Code: 1, Name: "Closed"},
		{Code: 2, Name: "Open"},
	}

	modbusControlEnum = []EnumState{
		{Code: 0, Name: "Disabled"},
		{Code: 1, Name: "Switch Control"},
		{Code: 2, Name: "Flow Control"},
	}

	// Code 4 is reported when a wall controller or external input has
	// taken over; it cannot be commanded over the bus.
	powerSwitchEnum = []EnumState{
		{Code: 0, Name: "Absence"},
		{Code: 1, Name: "Low"},
		{Code: 2, Name: "Normal"},
		{Code: 3, Name: "High"},
		{Code: 4, Name: "Manual", DisplayOnly: true},
	}
)

// baseTable returns the full register table with flow ceilings bound to
// the model's maximum.
func baseTable(maxFlow float64) []Descriptor {
	return []Descriptor{
		// ---- system information (input, slow) ----
		{Key: "device_type", Address: 4004, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: Count, Cadence: CadenceSlow, Max: 65535},
		{Key: "serial_number", Address: 4010, Words: 2, Kind: KindInput, Access: ReadOnly,
			Type: Count, Cadence: CadenceSlow, Max: 4294967295},
		{Key: "software_version", Address: 4012, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: Count, Cadence: CadenceSlow, Max: 65535},

		// ---- pressures (input, fast, tenths of Pa) ----
		{Key: "supply_pressure", Address: 4023, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: Pressure, Cadence: CadenceFast, Signed: true, Scale: 0.1, Min: -1000, Max: 1000, Unit: "Pa"},
		{Key: "exhaust_pressure", Address: 4024, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: Pressure, Cadence: CadenceFast, Signed: true, Scale: 0.1, Min: -1000, Max: 1000, Unit: "Pa"},

		// ---- supply branch (input, fast) ----
		{Key: "supply_volume_setpoint", Address: 4031, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: FlowVolume, Cadence: CadenceFast, Max: maxFlow, Unit: "m³/h"},
		{Key: "supply_volume_actual", Address: 4032, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: FlowVolume, Cadence: CadenceFast, Max: maxFlow, Unit: "m³/h"},
		{Key: "supply_fan_rpm", Address: 4034, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: RPM, Cadence: CadenceFast, Max: 5000, Unit: "RPM"},
		{Key: "supply_air_temperature", Address: 4036, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: Temperature, Cadence: CadenceFast, Signed: true, Scale: 0.1, Min: -40, Max: 60, Unit: "°C"},
		{Key: "supply_air_humidity", Address: 4037, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: Percentage, Cadence: CadenceFast, Max: 100, Unit: "%"},

		// ---- exhaust branch (input, fast) ----
		{Key: "exhaust_volume_setpoint", Address: 4041, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: FlowVolume, Cadence: CadenceFast, Max: maxFlow, Unit: "m³/h"},
		{Key: "exhaust_volume_actual", Address: 4042, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: FlowVolume, Cadence: CadenceFast, Max: maxFlow, Unit: "m³/h"},
		{Key: "exhaust_fan_rpm", Address: 4044, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: RPM, Cadence: CadenceFast, Max: 5000, Unit: "RPM"},
		{Key: "exhaust_air_temperature", Address: 4046, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: Temperature, Cadence: CadenceFast, Signed: true, Scale: 0.1, Min: -40, Max: 60, Unit: "°C"},
		{Key: "exhaust_air_humidity", Address: 4047, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: Percentage, Cadence: CadenceFast, Max: 100, Unit: "%"},

		// ---- unit state (input, fast) ----
		{Key: "bypass_state", Address: 4050, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: Enum, Cadence: CadenceFast, Max: 255, Enum: bypassStateEnum},
		{Key: "preheater_state", Address: 4060, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: Enum, Cadence: CadenceFast, Max: 2, Enum: preheaterStateEnum},
		{Key: "preheater_power", Address: 4061, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: Percentage, Cadence: CadenceFast, Max: 100, Unit: "%"},
		{Key: "outside_temperature", Address: 4081, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: Temperature, Cadence: CadenceFast, Signed: true, Scale: 0.1, Min: -40, Max: 60, Unit: "°C"},

		// ---- filter diagnostics (input, slow) ----
		{Key: "filter_state", Address: 4100, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: Enum, Cadence: CadenceSlow, Max: 1, Enum: filterStateEnum},
		{Key: "filter_usage_hours", Address: 4115, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: Count, Cadence: CadenceSlow, Max: 65535, Unit: "h"},

		// ---- CO2 sensors (input, fast; 325 Plus / 400 only) ----
		{Key: "co2_sensor_1", Address: 4201, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: Count, Cadence: CadenceFast, Max: 5000, Unit: "ppm"},
		{Key: "co2_sensor_2", Address: 4203, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: Count, Cadence: CadenceFast, Max: 5000, Unit: "ppm"},
		{Key: "co2_sensor_3", Address: 4205, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: Count, Cadence: CadenceFast, Max: 5000, Unit: "ppm"},
		{Key: "co2_sensor_4", Address: 4207, Words: 1, Kind: KindInput, Access: ReadOnly,
			Type: Count, Cadence: CadenceFast, Max: 5000, Unit: "ppm"},

		// ---- flow levels per power mode (holding, slow) ----
		{Key: "flow_level_0_absence", Address: 6000, Words: 1, Kind: KindHolding, Access: ReadWrite,
			Type: FlowVolume, Cadence: CadenceSlow, Max: maxFlow, Unit: "m³/h"},
		{Key: "flow_level_1_low", Address: 6001, Words: 1, Kind: KindHolding, Access: ReadWrite,
			Type: FlowVolume, Cadence: CadenceSlow, Max: maxFlow, Unit: "m³/h"},
		{Key: "flow_level_2_normal", Address: 6002, Words: 1, Kind: KindHolding, Access: ReadWrite,
			Type: FlowVolume, Cadence: CadenceSlow, Max: maxFlow, Unit: "m³/h"},
		{Key: "flow_level_3_high", Address: 6003, Words: 1, Kind: KindHolding, Access: ReadWrite,
			Type: FlowVolume, Cadence: CadenceSlow, Max: maxFlow, Unit: "m³/h"},

		// ---- imbalance (holding, slow) ----
		{Key: "imbalance_allowed", Address: 6033, Words: 1, Kind: KindHolding, Access: ReadWrite,
			Type: Enum, Cadence: CadenceSlow, Max: 1, Enum: onOffEnum},
		{Key: "supply_imbalance_offset", Address: 6035, Words: 1, Kind: KindHolding, Access: ReadWrite,
			Type: Percentage, Cadence: CadenceSlow, Signed: true, Min: -15, Max: 15, Unit: "%"},
		{Key: "exhaust_imbalance_offset", Address: 6036, Words: 1, Kind: KindHolding, Access: ReadWrite,
			Type: Percentage, Cadence: CadenceSlow, Signed: true, Min: -15, Max: 15, Unit: "%"},

		// ---- bypass / CO2 / geo settings (holding, slow) ----
		{Key: "bypass_mode", Address: 6100, Words: 1, Kind: KindHolding, Access: ReadWrite,
			Type: Enum, Cadence: CadenceSlow, Max: 2, Enum: bypassModeEnum},
		{Key: "co2_sensor_mode", Address: 6150, Words: 1, Kind: KindHolding, Access: ReadWrite,
			Type: Enum, Cadence: CadenceSlow, Max: 1, Enum: onOffEnum},
		{Key: "geo_heat_exchanger", Address: 6240, Words: 1, Kind: KindHolding, Access: ReadWrite,
			Type: Enum, Cadence: CadenceSlow, Max: 1, Enum: onOffEnum},
		{Key: "geo_min_temperature", Address: 6241, Words: 1, Kind: KindHolding, Access: ReadWrite,
			Type: Temperature, Cadence: CadenceSlow, Scale: 0.1, Min: 0, Max: 10, Unit: "°C"},
		{Key: "geo_max_temperature", Address: 6242, Words: 1, Kind: KindHolding, Access: ReadWrite,
			Type: Temperature, Cadence: CadenceSlow, Scale: 0.1, Min: 15, Max: 40, Unit: "°C"},

		// ---- modbus control (holding, slow) ----
		{Key: "slave_address", Address: 7991, Words: 1, Kind: KindHolding, Access: ReadWrite,
			Type: Count, Cadence: CadenceSlow, Min: 1, Max: 247},
		{Key: "modbus_control", Address: 8000, Words: 1, Kind: KindHolding, Access: ReadWrite,
			Type: Enum, Cadence: CadenceSlow, Max: 2, Enum: modbusControlEnum},
		{Key: "power_switch_position", Address: 8001, Words: 1, Kind: KindHolding, Access: ReadWrite,
			Type: Enum, Cadence: CadenceSlow, Max: 4, Enum: powerSwitchEnum},
		{Key: "flow_setpoint", Address: 8002, Words: 1, Kind: KindHolding, Access: ReadWrite,
			Type: FlowVolume, Cadence: CadenceSlow, Min: 50, Max: maxFlow, Unit: "m³/h"},

		// ---- momentary actions (holding, not polled) ----
		{Key: "device_reset", Address: 8011, Words: 1, Kind: KindHolding, Access: WriteOnlyTransient,
			Type: Count, Cadence: CadenceNone, Max: 1},
	}
}
