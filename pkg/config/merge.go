package config

// Merge combines two decoded JSON documents. Nested objects merge key by
// key; scalars and arrays are replaced wholesale by the overlay. Neither
// input map is modified.
func Merge(base, overlay map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		bv, exists := out[k]
		if !exists {
			out[k] = v
			continue
		}
		bm, baseIsMap := bv.(map[string]interface{})
		om, overlayIsMap := v.(map[string]interface{})
		if baseIsMap && overlayIsMap {
			out[k] = Merge(bm, om)
		} else {
			out[k] = v
		}
	}
	return out
}

// MergeLayers folds a sequence of layers, least specific first.
func MergeLayers(layers ...map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	for _, layer := range layers {
		out = Merge(out, layer)
	}
	return out
}
