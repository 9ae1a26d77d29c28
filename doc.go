/*
Package roadwatch detects cars and pedestrians in a video stream using
pretrained Haar cascade classifiers, draws bounding boxes and running
statistics over each frame, and optionally records the annotated stream and
individual snapshot stills.

A Session ties the pieces together: it owns one Detector per object class,
the running Statistics, an output Sink and the video Source, and drives the
frame loop from source open through teardown. Interactive key commands
allow quitting, saving a snapshot of the current frame, and resetting the
statistics mid run.

See the cmd/roadwatch command for the CLI front end.
*/
package roadwatch
