package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records the stages of the ad submission pipeline.
type PipelineMetrics struct {
	classifyDuration *prometheus.HistogramVec
	imagesScreened   *prometheus.CounterVec
	adsSubmitted     *prometheus.CounterVec
	uploadFailures   prometheus.Counter
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	classifyDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ad_image_classify_duration_seconds",
		Help:    "Duration of classifier calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})
	imagesScreened := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ad_images_screened_total",
		Help: "Images screened by the classification pipeline.",
	}, []string{"verdict"})
	adsSubmitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ads_submitted_total",
		Help: "Ad submissions finishing the pipeline.",
	}, []string{"outcome"})
	uploadFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ad_image_upload_failures_total",
		Help: "Failed image uploads to object storage.",
	})
	reg.MustRegister(classifyDuration, imagesScreened, adsSubmitted, uploadFailures)
	return &PipelineMetrics{
		classifyDuration: classifyDuration,
		imagesScreened:   imagesScreened,
		adsSubmitted:     adsSubmitted,
		uploadFailures:   uploadFailures,
	}
}

// ObserveClassify records the duration of a classifier call.
func (p *PipelineMetrics) ObserveClassify(status string, duration time.Duration) {
	if p == nil || p.classifyDuration == nil {
		return
	}
	p.classifyDuration.WithLabelValues(normalizeLabel(status)).Observe(duration.Seconds())
}

// IncImageScreened counts one screened image by verdict.
func (p *PipelineMetrics) IncImageScreened(verdict string) {
	if p == nil || p.imagesScreened == nil {
		return
	}
	p.imagesScreened.WithLabelValues(normalizeLabel(verdict)).Inc()
}

// IncAdSubmitted counts one finished submission by outcome.
func (p *PipelineMetrics) IncAdSubmitted(outcome string) {
	if p == nil || p.adsSubmitted == nil {
		return
	}
	p.adsSubmitted.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncUploadFailure counts one failed storage upload.
func (p *PipelineMetrics) IncUploadFailure() {
	if p == nil || p.uploadFailures == nil {
		return
	}
	p.uploadFailures.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
