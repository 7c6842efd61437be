package metrics

import (
	"detailq/internal/global"
	"fmt"
	"strconv"
	"time"
)

// Reduces all matching metric values in the window into one summary metric
func (registry *Registry) Aggregate(aggType, name string, namespacePrefix []string, start, end time.Time) (result Metric, err error) {
	matches := registry.Search(name, namespacePrefix, start, end)
	if len(matches) == 0 {
		err = fmt.Errorf("no metrics named %q found in requested window", name)
		return
	}

	values := make([]float64, 0, len(matches))
	for _, metric := range matches {
		var value float64
		value, err = toFloat(metric.Value.Raw)
		if err != nil {
			err = fmt.Errorf("metric %q: %w", metric.Name, err)
			return
		}
		values = append(values, value)
	}

	var agg float64
	switch aggType {
	case global.MetricSum, global.MetricAvg:
		for _, v := range values {
			agg += v
		}
		if aggType == global.MetricAvg {
			agg /= float64(len(values))
		}
	case global.MetricMin:
		agg = values[0]
		for _, v := range values[1:] {
			agg = min(agg, v)
		}
	case global.MetricMax:
		agg = values[0]
		for _, v := range values[1:] {
			agg = max(agg, v)
		}
	default:
		err = fmt.Errorf("unknown aggregation type %q", aggType)
		return
	}

	result = Metric{
		Name:        name,
		Description: aggType + " of " + matches[0].Description,
		Namespace:   namespacePrefix,
		Type:        Summary,
		Timestamp:   end,
		Value: MetricValue{
			Raw:      agg,
			Unit:     matches[0].Value.Unit,
			Interval: end.Sub(start),
		},
	}
	return
}

// Numeric view of a raw metric value
func toFloat(raw interface{}) (value float64, err error) {
	switch v := raw.(type) {
	case uint64:
		value = float64(v)
	case int64:
		value = float64(v)
	case int:
		value = float64(v)
	case uint32:
		value = float64(v)
	case int32:
		value = float64(v)
	case float64:
		value = v
	case float32:
		value = float64(v)
	case string:
		value, err = strconv.ParseFloat(v, 64)
	default:
		err = fmt.Errorf("value of type %T is not numeric", raw)
	}
	return
}

// Numeric value of the metric
func (inMetric Metric) Float() (value float64, err error) {
	value, err = toFloat(inMetric.Value.Raw)
	return
}
