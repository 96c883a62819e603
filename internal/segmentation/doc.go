// Package segmentation clusters customers into the five value segments.
//
// Features are standardized (population z-score), clustered with seeded
// k-means++ and several restarts, and the clusters are then named by their
// mean monetary value: the cheapest cluster is "Hibernating / Low Value" and
// the most valuable is "Champion (VIP)". Input is put in customer id order
// before clustering, so the same customers always yield the same labels
// regardless of row order.
package segmentation
